// Package game holds the pure Connect Four rules shared by the server
// session and the client mirror: the board, gravity, win detection and
// the enumerated states both sides move through.  Nothing here does I/O
// or locking; callers serialize access.
package game

import "fmt"

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Cell is the owner of one board position.  Player numbers on the wire
// are the same values.
type Cell uint8

const (
	Empty   Cell = 0
	Player1 Cell = 1
	Player2 Cell = 2
)

// IsPlayer reports whether c names one of the two players.
func (c Cell) IsPlayer() bool { return c == Player1 || c == Player2 }

// Opponent returns the other player; Empty stays Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

// Point is a (row, column) coordinate; row 0 is the top of the grid.
type Point struct {
	Row int
	Col int
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Line is a completed four-in-a-row, identified by its endpoints in
// scan order.
type Line struct {
	From Point
	To   Point
}

func (l Line) String() string { return l.From.String() + "-" + l.To.String() }

// Error is a rule violation.  The session treats all of them as silent
// no-ops; they exist so the board can say why.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidColumn Error = "column out of range"
	ErrInvalidCell   Error = "cell out of range"
	ErrColumnFull    Error = "column is full"
	ErrCellOccupied  Error = "cell already occupied"
	ErrNotAPlayer    Error = "owner is not a player"
)

// ── State machines ───────────────────────────────────────────────────

// SessionState is the server-side lifecycle of one paired game.
type SessionState int

const (
	AwaitingOpponent SessionState = iota
	InProgress
	GameOver
	Terminated
)

func (s SessionState) String() string {
	switch s {
	case AwaitingOpponent:
		return "awaiting-opponent"
	case InProgress:
		return "in-progress"
	case GameOver:
		return "game-over"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ClientState is one player's view of the game.
type ClientState int

const (
	Waiting ClientState = iota
	PlayerTurn
	EnemyTurn
	Finished
)

func (s ClientState) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case PlayerTurn:
		return "player-turn"
	case EnemyTurn:
		return "enemy-turn"
	case Finished:
		return "game-over"
	default:
		return "unknown"
	}
}
