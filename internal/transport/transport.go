// Package transport opens the client's connection to the game server,
// either directly over TCP or forwarded through an SSH gateway.  What
// flows over the connection is the protocol package's business.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
