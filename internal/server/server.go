package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	c4err "c4net/internal/errors"
	"c4net/internal/metrics"
	"c4net/util"
)

// Server accepts game clients and binds each one to a single Manager.
type Server struct {
	Manager      *Manager
	WriteTimeout time.Duration
	Stats        *metrics.Collector
	Logger       *util.Logger

	mu    sync.Mutex
	conns map[*Conn]struct{}
	wg    sync.WaitGroup
}

// New returns a Server with its own Manager.
func New(stats *metrics.Collector, logger *util.Logger) *Server {
	log := logger.With("server")
	return &Server{
		Manager:      NewManager(stats, log),
		WriteTimeout: DefaultWriteTimeout,
		Stats:        stats,
		Logger:       log,
	}
}

// ListenAndServe listens on addr ("host:port") and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return c4err.Wrap("listen", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes
// every live connection and waits for their read loops to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	s.Logger.Info("listening on %s", ln.Addr())

	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	defer s.shutdown()

	for {
		nc, err := ln.Accept()
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

		s.Logger.Verbose("connection from %s", nc.RemoteAddr())
		c := NewConn(nc, s.Manager, s.Stats, s.Logger)
		c.WriteTimeout = s.WriteTimeout
		s.track(c, true)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(c, false)
			c.Serve() //nolint:errcheck
		}()
	}
}

// Connections returns the number of live client connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(c *Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		s.conns = make(map[*Conn]struct{})
	}
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

func (s *Server) shutdown() {
	s.mu.Lock()
	for c := range s.conns {
		c.Close() //nolint:errcheck
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.Logger.Verbose("all connections closed")
}
