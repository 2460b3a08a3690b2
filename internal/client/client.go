package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	c4err "c4net/internal/errors"
	"c4net/internal/protocol"
	"c4net/util"
)

// Client owns the connection to the game server.
type Client struct {
	conn net.Conn
	name string
	log  *util.Logger

	mu      sync.Mutex
	machine *Machine
	closed  bool

	reader *protocol.Reader

	wmu    sync.Mutex
	writer *protocol.Writer
}

// New wraps an established connection.  Nothing is sent until Run.
func New(conn net.Conn, name string, ui UI, logger *util.Logger) *Client {
	return &Client{
		conn:    conn,
		name:    name,
		log:     logger.With("client"),
		machine: NewMachine(name, ui),
		reader:  protocol.NewReader(conn, protocol.ServerToClient),
		writer:  protocol.NewWriter(conn),
	}
}

// View is the board the UI draws from.  Only read it from UI callbacks
// or after Run has returned.
func (c *Client) View() BoardView { return c.machine }

// Run joins matchmaking and processes server frames until the opponent
// leaves, the server closes the connection or ctx is cancelled; those
// all return nil.  An I/O failure or a malformed frame is returned.
func (c *Client) Run(ctx context.Context) error {
	defer c.Close() //nolint:errcheck

	if err := c.send(protocol.Join{Name: c.name}); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Close() //nolint:errcheck
		case <-stop:
		}
	}()

	for {
		msg, err := c.reader.ReadMessage()
		if err != nil {
			return c.readError(ctx, err)
		}
		c.log.Debug("recv %v", msg)

		c.mu.Lock()
		done := c.machine.Handle(msg)
		c.mu.Unlock()
		if done {
			c.log.Info("opponent left; session over")
			return nil
		}
	}
}

func (c *Client) readError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return nil
	case errors.Is(err, io.EOF):
		c.log.Info("server closed the connection")
		return nil
	case c.isClosed():
		return nil
	case c4err.IsProtocol(err):
		return fmt.Errorf("server sent a bad frame: %w", err)
	}
	return c4err.Wrap("read", util.RemoteName(c.conn), err)
}

// PlaceToken asks to drop a token in column (0-based).  Outside this
// player's turn it does nothing.
func (c *Client) PlaceToken(column int) error {
	c.mu.Lock()
	msg, ok := c.machine.PlaceToken(column)
	c.mu.Unlock()
	if !ok {
		c.log.Verbose("not your turn; column %d ignored", column+1)
		return nil
	}
	return c.send(msg)
}

// RequestNewGame asks the server to restart a finished game.
func (c *Client) RequestNewGame() error {
	c.mu.Lock()
	msg := c.machine.RequestNewGame()
	c.mu.Unlock()
	return c.send(msg)
}

// Close closes the connection, ending Run.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) send(m protocol.Message) error {
	if c.isClosed() {
		return c4err.ErrNotConnected
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.writer.WriteMessage(m); err != nil {
		return c4err.Wrap("write", util.RemoteName(c.conn), err)
	}
	c.log.Debug("send %v", m)
	return nil
}
