package core

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"c4net/internal/client"
	c4err "c4net/internal/errors"
	"c4net/internal/retry"
	"c4net/internal/transport"
	"c4net/util"
)

// ClientMode dials the game server, joins under PlayerName and plays
// from a line-oriented console.
type ClientMode struct {
	Dialer     transport.Dialer
	Address    string
	PlayerName string
	Retries    int // extra dial attempts; only the first connection is retried
	Logger     *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	// Override in tests for deterministic I/O.
	Stdin  io.Reader
	Stdout io.Writer
}

func (m *ClientMode) stdin() io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func (m *ClientMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run connects, then plays until the opponent leaves, the server goes
// away, the user quits or ctx is cancelled.
func (m *ClientMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	conn, err := m.dial(ctx)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", m.Address, err)
	}
	m.Logger.Verbose("connected to %s", conn.RemoteAddr())

	console := client.NewConsole(m.stdin(), m.stdout())
	cl := client.New(conn, m.PlayerName, console, m.Logger)
	console.Attach(cl.View())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := console.ReadIntents(ctx, cl)
		if err != nil && ctx.Err() == nil {
			m.Logger.Verbose("input: %v", err)
		}
		// No more input: leave the game.
		cl.Close() //nolint:errcheck
	}()

	return cl.Run(ctx)
}

func (m *ClientMode) dial(ctx context.Context) (net.Conn, error) {
	var conn net.Conn
	b := retry.DefaultBackoff(m.Retries + 1)
	b.ShouldRetry = c4err.IsRetryable
	err := b.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			m.Logger.Verbose("retrying %s (attempt %d)", m.Address, attempt)
		}
		c, err := m.Dialer.Dial(ctx, "tcp", m.Address)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return err
		}
		conn = c
		return nil
	})
	return conn, err
}
