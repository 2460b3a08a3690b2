// Package server is the authoritative side of the game: it accepts
// sockets, pairs them into two-player sessions and enforces the rules.
//
// A connection's inbound frames go to its current [Listener].  Every
// connection starts bound to the [Manager]; joining rebinds it, once, to
// the [Session] it was seated in.  Sessions talk back through the
// [Peer] side of the same connection.
package server

// Listener consumes the intents decoded from one connection.
type Listener interface {
	// Join seats p under name and returns its player number.
	Join(p Peer, name string) (int, error)
	PlaceToken(p Peer, player, column int)
	NewGame(p Peer)
	// Disconnect is called exactly once, after p's socket is closed.
	Disconnect(p Peer)
}

// Peer is the outbound half of a connection.  Every method writes one
// frame synchronously and reports the write error to the caller.
type Peer interface {
	InformPlayerNumber(player int) error
	InformNewPlayer(player int, name string) error
	AnnounceTurn(player int) error
	TokenPlaced(player, row, column int) error
	BoardCleared() error
	SessionEnded() error

	// Rebind moves the connection from matchmaking to its session.  Only
	// the first call has an effect.
	Rebind(l Listener)
	Close() error
	String() string
}
