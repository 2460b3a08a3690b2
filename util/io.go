package util

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
)

// DefaultBufSize is the standard buffer size for relayed network I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// relayBufs recycles Copy buffers across sniffed connections.
var relayBufs = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufSize)
		return &buf
	},
}

// PumpFunc moves bytes from src to dst until src is exhausted or an
// error occurs.  [Copy] is the plain implementation.
type PumpFunc func(dst io.Writer, src io.Reader) error

// Copy is a PumpFunc that copies through a pooled buffer.
func Copy(dst io.Writer, src io.Reader) error {
	buf := relayBufs.Get().(*[]byte)
	defer relayBufs.Put(buf)
	_, err := io.CopyBuffer(dst, src, *buf)
	return err
}

// Splice relays traffic between two connections until either side
// closes or the context is cancelled.  aToB pumps bytes read from a
// into b, bToA the reverse; nil selects [Copy].  Both connections are
// closed before Splice returns.
func Splice(ctx context.Context, a, b net.Conn, aToB, bToA PumpFunc) error {
	if aToB == nil {
		aToB = Copy
	}
	if bToA == nil {
		bToA = Copy
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	pump := func(dst, src net.Conn, fn PumpFunc) {
		defer wg.Done()
		err := fn(dst, src)
		// Half-close so the far side sees EOF, but let the opposite
		// direction drain whatever is still in flight.
		if tc, ok := dst.(*net.TCPConn); ok {
			tc.CloseWrite() //nolint:errcheck
		}
		errCh <- err
		if err != nil {
			cancel()
		}
	}

	wg.Add(2)
	go pump(b, a, aToB)
	go pump(a, b, bToA)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	a.Close()
	b.Close()
	<-done
	close(errCh)

	for err := range errCh {
		if err != nil && !IsHarmless(err) {
			return err
		}
	}
	return nil
}

// IsHarmless returns true for errors that are expected during shutdown.
func IsHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
