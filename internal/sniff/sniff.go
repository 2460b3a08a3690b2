// Package sniff is a man-in-the-middle relay for debugging the game
// protocol.  It sits between a client and the real server, passes every
// byte through unchanged and logs each frame it can decode.
package sniff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	c4err "c4net/internal/errors"
	"c4net/internal/metrics"
	"c4net/internal/protocol"
	"c4net/internal/transport"
	"c4net/util"
)

// Sniffer relays accepted clients to Upstream.
type Sniffer struct {
	Upstream string           // game server "host:port"
	Dialer   transport.Dialer // defaults to a plain TCP dialer
	Stats    *metrics.Collector
	Logger   *util.Logger

	wg sync.WaitGroup
}

// Serve accepts clients on ln until ctx is cancelled.  Each client gets
// its own upstream connection.
func (s *Sniffer) Serve(ctx context.Context, ln net.Listener) error {
	if s.Dialer == nil {
		s.Dialer = &transport.TCPDialer{}
	}
	defer ln.Close()
	defer s.wg.Wait()

	s.Logger.Info("relaying %s → %s", ln.Addr(), s.Upstream)

	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Sniffer) handle(ctx context.Context, client net.Conn) {
	log := s.Logger.With(util.RemoteName(client))
	s.Stats.ConnectionOpened()
	defer s.Stats.ConnectionClosed()

	up, err := s.Dialer.Dial(ctx, "tcp", s.Upstream)
	if err != nil {
		log.Error("upstream: %v", err)
		s.Stats.RecordError(err.Error())
		client.Close()
		return
	}
	log.Verbose("connected to %s", s.Upstream)

	err = util.Splice(ctx, client, up,
		s.pump(log, protocol.ClientToServer),
		s.pump(log, protocol.ServerToClient))
	if err != nil {
		log.Warn("relay: %v", err)
		return
	}
	log.Verbose("closed")
}

// pump relays src to dst and logs the frames passing through.  When a
// frame cannot be decoded it says so once and keeps relaying raw bytes.
func (s *Sniffer) pump(log *util.Logger, dir protocol.Direction) util.PumpFunc {
	return func(dst io.Writer, src io.Reader) error {
		r := protocol.NewReader(io.TeeReader(src, dst), dir)
		for {
			before := r.BytesRead()
			m, err := r.ReadMessage()
			switch {
			case err == nil:
				if dir == protocol.ClientToServer {
					s.Stats.FrameReceived(int(r.BytesRead() - before))
				} else {
					s.Stats.FrameSent(int(r.BytesRead() - before))
				}
				log.Info("%s: %v", dir, m)
			case c4err.IsProtocol(err):
				s.Stats.ProtocolError(err.Error())
				log.Warn("%s: %v; relaying raw bytes from here on", dir, err)
				return util.Copy(dst, src)
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, io.ErrUnexpectedEOF):
				log.Verbose("%s: stream ended inside a frame", dir)
				return nil
			default:
				return err
			}
		}
	}
}
