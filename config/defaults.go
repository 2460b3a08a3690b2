package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across the three command lines.

const (
	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultWriteTimeout bounds one outbound frame on the server.
	DefaultWriteTimeout = 5 * time.Second

	// DefaultDialTimeout is the client's TCP connect timeout.
	DefaultDialTimeout = 10 * time.Second

	// DefaultConnTimeout is the SSH gateway connect timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultRetries is how many extra times the client dials at
	// startup.  A connection lost mid-game is never retried.
	DefaultRetries = 0

	// DefaultRetryDelay and DefaultMaxRetryDelay shape the startup
	// backoff between dial attempts.
	DefaultRetryDelay    = 250 * time.Millisecond
	DefaultMaxRetryDelay = 5 * time.Second
)
