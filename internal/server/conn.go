package server

import (
	"net"
	"sync"
	"time"

	c4err "c4net/internal/errors"
	"c4net/internal/metrics"
	"c4net/internal/protocol"
	"c4net/util"
)

// DefaultWriteTimeout bounds a single frame write so one stalled client
// cannot hold a session lock indefinitely.
const DefaultWriteTimeout = 5 * time.Second

// Conn is the wire proxy for one client socket.
type Conn struct {
	conn  net.Conn
	name  string
	log   *util.Logger
	stats *metrics.Collector

	// WriteTimeout is the deadline applied to each outbound frame;
	// zero disables it.  Set before Serve.
	WriteTimeout time.Duration

	reader *protocol.Reader

	wmu    sync.Mutex
	writer *protocol.Writer

	lmu      sync.Mutex
	listener Listener
	rebound  bool

	closeOnce sync.Once
}

// NewConn wraps nc with its intents going to l until the first Rebind.
func NewConn(nc net.Conn, l Listener, stats *metrics.Collector, logger *util.Logger) *Conn {
	name := util.RemoteName(nc)
	return &Conn{
		conn:         nc,
		name:         name,
		log:          logger.With("conn " + name),
		stats:        stats,
		WriteTimeout: DefaultWriteTimeout,
		reader:       protocol.NewReader(nc, protocol.ClientToServer),
		writer:       protocol.NewWriter(nc),
		listener:     l,
	}
}

func (c *Conn) String() string { return c.name }

// Serve runs the inbound read loop until the peer goes away or breaks
// the protocol, then closes the socket and reports the disconnect to
// whichever listener owns the connection at that point.  An orderly
// disconnect returns nil.
func (c *Conn) Serve() error {
	c.stats.ConnectionOpened()
	defer c.stats.ConnectionClosed()

	err := c.readLoop()
	c.Close() //nolint:errcheck
	c.current().Disconnect(c)
	return err
}

func (c *Conn) readLoop() error {
	for {
		before := c.reader.BytesRead()
		m, err := c.reader.ReadMessage()
		if err != nil {
			switch {
			case c4err.IsProtocol(err):
				c.stats.ProtocolError(err.Error())
				c.log.Warn("dropping connection: %v", err)
				return err
			case c4err.IsClosed(err):
				c.log.Verbose("disconnected")
				return nil
			default:
				c.stats.RecordError(err.Error())
				c.log.Warn("read: %v", err)
				return c4err.Wrap("read", c.name, err)
			}
		}
		c.stats.FrameReceived(int(c.reader.BytesRead() - before))
		c.log.Debug("recv %v", m)
		c.dispatch(m)
	}
}

func (c *Conn) dispatch(m protocol.Message) {
	l := c.current()
	switch m := m.(type) {
	case protocol.Join:
		n, err := l.Join(c, m.Name)
		if err != nil {
			c.log.Warn("join as %q: %v", m.Name, err)
			return
		}
		c.log.Info("%q seated as player %d", m.Name, n)
	case protocol.Place:
		l.PlaceToken(c, int(m.Player), int(m.Column))
	case protocol.Clear:
		l.NewGame(c)
	}
}

func (c *Conn) current() Listener {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	return c.listener
}

func (c *Conn) Rebind(l Listener) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	if c.rebound {
		return
	}
	c.listener = l
	c.rebound = true
}

// Close closes the socket, which also ends a running Serve.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// ── Outbound frames ──────────────────────────────────────────────────

func (c *Conn) InformPlayerNumber(player int) error {
	return c.send(protocol.Number{Player: uint8(player)})
}

func (c *Conn) InformNewPlayer(player int, name string) error {
	return c.send(protocol.Name{Player: uint8(player), Name: name})
}

func (c *Conn) AnnounceTurn(player int) error {
	return c.send(protocol.Turn{Player: uint8(player)})
}

func (c *Conn) TokenPlaced(player, row, column int) error {
	return c.send(protocol.Added{Player: uint8(player), Row: uint8(row), Column: uint8(column)})
}

func (c *Conn) BoardCleared() error { return c.send(protocol.Cleared{}) }

func (c *Conn) SessionEnded() error { return c.send(protocol.Quit{}) }

func (c *Conn) send(m protocol.Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)) //nolint:errcheck
	}
	n, err := c.writer.WriteMessage(m)
	if err != nil {
		c.stats.RecordError(err.Error())
		return c4err.Wrap("write", c.name, err)
	}
	c.stats.FrameSent(n)
	c.log.Debug("send %v", m)
	return nil
}
