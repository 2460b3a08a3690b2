package core

import (
	"context"
	"net"
	"time"

	"c4net/internal/metrics"
	"c4net/internal/server"
	"c4net/util"
)

// ServerMode runs the matchmaking game server until ctx is cancelled.
type ServerMode struct {
	Address      string // "host:port"
	WriteTimeout time.Duration
	Stats        *metrics.Collector
	ShowStats    bool // print the snapshot at normal verbosity
	Logger       *util.Logger

	// Listener, when set, is served instead of listening on Address.
	Listener net.Listener
}

// Run serves until ctx is cancelled, then reports the metrics snapshot.
func (m *ServerMode) Run(ctx context.Context) error {
	srv := server.New(m.Stats, m.Logger)
	srv.WriteTimeout = m.WriteTimeout

	var err error
	if m.Listener != nil {
		err = srv.Serve(ctx, m.Listener)
	} else {
		err = srv.ListenAndServe(ctx, m.Address)
	}

	m.report()
	return err
}

func (m *ServerMode) report() {
	if m.Stats == nil {
		return
	}
	if m.ShowStats {
		m.Logger.Info("stats:\n%s", m.Stats.JSON())
	} else {
		m.Logger.Verbose("stats:\n%s", m.Stats.JSON())
	}
}
