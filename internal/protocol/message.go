// Package protocol implements the Connect Four wire format: one opcode
// byte followed by a payload whose shape the opcode implies.  Integers
// are single unsigned bytes; names are a big-endian uint16 length and
// that many UTF-8 bytes.
//
// The opcodes 'A' and 'C' exist in both directions with different
// payloads, so a Reader is always built for one [Direction].
package protocol

import (
	"fmt"
)

// Direction says which side of the connection produced a frame.
type Direction int

const (
	ClientToServer Direction = iota
	ServerToClient
)

func (d Direction) String() string {
	if d == ClientToServer {
		return "client→server"
	}
	return "server→client"
}

// ── Opcodes ──────────────────────────────────────────────────────────

// Client → server.
const (
	OpJoin  byte = 'J'
	OpPlace byte = 'A'
	OpClear byte = 'C'
)

// Server → client.
const (
	OpNumber  byte = 'I'
	OpName    byte = 'N'
	OpTurn    byte = 'T'
	OpAdded   byte = 'A'
	OpCleared byte = 'C'
	OpQuit    byte = 'Q'
)

// MaxNameLen is the longest display name, in bytes, either side accepts.
const MaxNameLen = 255

// GameOver is the Turn value announcing that nobody may move.
const GameOver uint8 = 0

// Message is one decoded frame.  The concrete types below are the only
// implementations.
type Message interface {
	Opcode() byte
	Direction() Direction
	String() string

	appendPayload(b []byte) ([]byte, error)
}

// ── Client → server ──────────────────────────────────────────────────

// Join asks matchmaking for a seat.
type Join struct{ Name string }

// Place asks to drop Player's token into Column.
type Place struct{ Player, Column uint8 }

// Clear asks for a new game.
type Clear struct{}

// ── Server → client ──────────────────────────────────────────────────

// Number tells a client which seat it holds.
type Number struct{ Player uint8 }

// Name announces a seated player.
type Name struct {
	Player uint8
	Name   string
}

// Turn announces the turn holder; [GameOver] ends the game.
type Turn struct{ Player uint8 }

// Added reports an accepted placement.
type Added struct{ Player, Row, Column uint8 }

// Cleared reports a board reset.
type Cleared struct{}

// Quit reports that the opponent left and the session is over.
type Quit struct{}

func (Join) Opcode() byte    { return OpJoin }
func (Place) Opcode() byte   { return OpPlace }
func (Clear) Opcode() byte   { return OpClear }
func (Number) Opcode() byte  { return OpNumber }
func (Name) Opcode() byte    { return OpName }
func (Turn) Opcode() byte    { return OpTurn }
func (Added) Opcode() byte   { return OpAdded }
func (Cleared) Opcode() byte { return OpCleared }
func (Quit) Opcode() byte    { return OpQuit }

func (Join) Direction() Direction    { return ClientToServer }
func (Place) Direction() Direction   { return ClientToServer }
func (Clear) Direction() Direction   { return ClientToServer }
func (Number) Direction() Direction  { return ServerToClient }
func (Name) Direction() Direction    { return ServerToClient }
func (Turn) Direction() Direction    { return ServerToClient }
func (Added) Direction() Direction   { return ServerToClient }
func (Cleared) Direction() Direction { return ServerToClient }
func (Quit) Direction() Direction    { return ServerToClient }

func (m Join) String() string    { return fmt.Sprintf("J %q", m.Name) }
func (m Place) String() string   { return fmt.Sprintf("A %d %d", m.Player, m.Column) }
func (Clear) String() string     { return "C" }
func (m Number) String() string  { return fmt.Sprintf("I %d", m.Player) }
func (m Name) String() string    { return fmt.Sprintf("N %d %q", m.Player, m.Name) }
func (m Turn) String() string    { return fmt.Sprintf("T %d", m.Player) }
func (m Added) String() string   { return fmt.Sprintf("A %d %d %d", m.Player, m.Row, m.Column) }
func (Cleared) String() string   { return "C" }
func (Quit) String() string      { return "Q" }

func (m Join) appendPayload(b []byte) ([]byte, error) { return appendName(b, m.Name) }
func (m Place) appendPayload(b []byte) ([]byte, error) {
	return append(b, m.Player, m.Column), nil
}
func (Clear) appendPayload(b []byte) ([]byte, error)    { return b, nil }
func (m Number) appendPayload(b []byte) ([]byte, error) { return append(b, m.Player), nil }
func (m Name) appendPayload(b []byte) ([]byte, error) {
	return appendName(append(b, m.Player), m.Name)
}
func (m Turn) appendPayload(b []byte) ([]byte, error) { return append(b, m.Player), nil }
func (m Added) appendPayload(b []byte) ([]byte, error) {
	return append(b, m.Player, m.Row, m.Column), nil
}
func (Cleared) appendPayload(b []byte) ([]byte, error) { return b, nil }
func (Quit) appendPayload(b []byte) ([]byte, error)    { return b, nil }
