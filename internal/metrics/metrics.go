// Package metrics provides lightweight, lock-free counters for the
// game server: connections, sessions, moves and wire traffic.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one server process.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	sessionsActive    atomic.Int64
	sessionsTotal     atomic.Int64
	wins              atomic.Int64
	draws             atomic.Int64
	movesApplied      atomic.Int64
	movesIgnored      atomic.Int64
	framesIn          atomic.Int64
	framesOut         atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64
	protocolErrors    atomic.Int64
	errorsTotal       atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connections ──────────────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ── Sessions and games ───────────────────────────────────────────────

// SessionOpened records a newly created game session.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessionsActive.Add(1)
	c.sessionsTotal.Add(1)
}

// SessionClosed records a session that was torn down.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsActive.Add(-1)
}

// ActiveSessions returns the number of sessions not yet torn down.
func (c *Collector) ActiveSessions() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsActive.Load()
}

// GameWon records a game that ended with a win line.
func (c *Collector) GameWon() {
	if c == nil {
		return
	}
	c.wins.Add(1)
}

// GameDrawn records a game that filled the board without a winner.
func (c *Collector) GameDrawn() {
	if c == nil {
		return
	}
	c.draws.Add(1)
}

// MoveApplied records an accepted token placement.
func (c *Collector) MoveApplied() {
	if c == nil {
		return
	}
	c.movesApplied.Add(1)
}

// MoveIgnored records a placement the session refused (wrong turn,
// full column, game already decided).
func (c *Collector) MoveIgnored() {
	if c == nil {
		return
	}
	c.movesIgnored.Add(1)
}

// Moves returns the applied and ignored placement counts.
func (c *Collector) Moves() (applied, ignored int64) {
	if c == nil {
		return 0, 0
	}
	return c.movesApplied.Load(), c.movesIgnored.Load()
}

// ── Wire traffic ─────────────────────────────────────────────────────

// FrameReceived records one decoded inbound frame of n bytes.
func (c *Collector) FrameReceived(n int) {
	if c == nil {
		return
	}
	c.framesIn.Add(1)
	c.bytesIn.Add(int64(n))
}

// FrameSent records one outbound frame of n bytes.
func (c *Collector) FrameSent(n int) {
	if c == nil {
		return
	}
	c.framesOut.Add(1)
	c.bytesOut.Add(int64(n))
}

// TotalBytesIn returns total bytes received in decoded frames.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ProtocolError records a malformed frame that ended a connection.
func (c *Collector) ProtocolError(msg string) {
	if c == nil {
		return
	}
	c.protocolErrors.Add(1)
	c.RecordError(msg)
}

// ── Errors ───────────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	ConnectionsActive int64  `json:"connections_active"`
	ConnectionsTotal  int64  `json:"connections_total"`
	SessionsActive    int64  `json:"sessions_active"`
	SessionsTotal     int64  `json:"sessions_total"`
	Wins              int64  `json:"wins"`
	Draws             int64  `json:"draws"`
	MovesApplied      int64  `json:"moves_applied"`
	MovesIgnored      int64  `json:"moves_ignored"`
	FramesIn          int64  `json:"frames_in"`
	FramesOut         int64  `json:"frames_out"`
	BytesIn           int64  `json:"bytes_in"`
	BytesOut          int64  `json:"bytes_out"`
	ProtocolErrors    int64  `json:"protocol_errors"`
	ErrorsTotal       int64  `json:"errors_total"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		SessionsActive:    c.sessionsActive.Load(),
		SessionsTotal:     c.sessionsTotal.Load(),
		Wins:              c.wins.Load(),
		Draws:             c.draws.Load(),
		MovesApplied:      c.movesApplied.Load(),
		MovesIgnored:      c.movesIgnored.Load(),
		FramesIn:          c.framesIn.Load(),
		FramesOut:         c.framesOut.Load(),
		BytesIn:           c.bytesIn.Load(),
		BytesOut:          c.bytesOut.Load(),
		ProtocolErrors:    c.protocolErrors.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
