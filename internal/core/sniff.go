package core

import (
	"context"
	"net"

	c4err "c4net/internal/errors"
	"c4net/internal/metrics"
	"c4net/internal/sniff"
	"c4net/internal/transport"
	"c4net/util"
)

// SnifferMode relays clients on Address to the server at Upstream and
// logs the decoded frames.
type SnifferMode struct {
	Address  string // local ":port"
	Upstream string
	Dialer   transport.Dialer
	Stats    *metrics.Collector
	Logger   *util.Logger

	// Listener, when set, is served instead of listening on Address.
	Listener net.Listener
}

// Run relays until ctx is cancelled.
func (m *SnifferMode) Run(ctx context.Context) error {
	ln := m.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", m.Address)
		if err != nil {
			return c4err.Wrap("listen", m.Address, err)
		}
	}

	s := &sniff.Sniffer{
		Upstream: m.Upstream,
		Dialer:   m.Dialer,
		Stats:    m.Stats,
		Logger:   m.Logger.With("sniff"),
	}
	err := s.Serve(ctx, ln)
	m.Logger.Verbose("stats:\n%s", m.Stats.JSON())
	return err
}
