// Package core is the orchestration layer.  It composes the transport,
// server, client and sniff packages into the three runnable programs
// and provides a builder that selects the right one from a Config.
//
// Architecture layers (bottom → top):
//
//	game, protocol  →  transport, server, client, sniff  →  core  →  cmd
//
// The builder in this package is the single dispatch point between a
// validated Config and a running process.
package core

import "context"

// Mode is one complete c4net program (server, client or sniffer).
// Each mode owns its full lifecycle from the first socket to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
