// Package client is the player's side of the game: a state machine that
// mirrors the server's board from the frames it receives, the socket
// loop that feeds it, and a console front-end.
package client

import (
	"fmt"

	"c4net/internal/game"
	"c4net/internal/protocol"
)

// UI is the front-end the machine drives.  Callbacks run on the client's
// read loop with its lock held; they may read the [BoardView] but must
// not call back into the Client.
type UI interface {
	Repaint()
	SetStatus(text string)
	EnableNewGame()
}

// BoardView is the read-only surface a front-end draws from.
type BoardView interface {
	Cell(row, col int) game.Cell
	WinLine() (game.Line, bool)
}

const (
	statusYourTurn     = "Your turn"
	statusGameOver     = "Game over"
	statusYouWin       = "You win!"
	statusOpponentLeft = "Opponent left"
)

// Machine turns server frames into local state.  It does no I/O and no
// locking.
type Machine struct {
	ui       UI
	name     string
	number   game.Cell
	opponent string

	state   game.ClientState
	board   game.Board
	line    game.Line
	hasLine bool
}

// NewMachine returns a machine for the player called name.
func NewMachine(name string, ui UI) *Machine {
	return &Machine{ui: ui, name: name, state: game.Waiting}
}

func (m *Machine) State() game.ClientState { return m.state }

// Number is this player's seat, 0 until the server assigns one.
func (m *Machine) Number() int { return int(m.number) }

// Opponent is the other player's display name, "" until announced.
func (m *Machine) Opponent() string { return m.opponent }

func (m *Machine) Cell(row, col int) game.Cell { return m.board.At(row, col) }

func (m *Machine) WinLine() (game.Line, bool) { return m.line, m.hasLine }

// Handle applies one server frame and reports whether the session is
// over for good.
func (m *Machine) Handle(msg protocol.Message) (done bool) {
	switch msg := msg.(type) {
	case protocol.Number:
		if m.number == game.Empty {
			m.number = game.Cell(msg.Player)
		}

	case protocol.Name:
		if msg.Name != m.name {
			m.opponent = msg.Name
		}
		m.state = game.Waiting

	case protocol.Turn:
		m.onTurn(game.Cell(msg.Player))

	case protocol.Added:
		owner := game.Cell(msg.Player)
		row, col := int(msg.Row), int(msg.Column)
		if err := m.board.Set(row, col, owner); err == nil && !m.hasLine {
			if line, ok := game.Detect(&m.board, row, col, owner); ok {
				m.line, m.hasLine = line, true
			}
		}
		m.ui.Repaint()
		m.state = game.Waiting

	case protocol.Cleared:
		m.board.Reset()
		m.line, m.hasLine = game.Line{}, false
		m.ui.Repaint()
		m.state = game.Waiting

	case protocol.Quit:
		m.state = game.Finished
		m.ui.SetStatus(statusOpponentLeft)
		return true
	}
	return false
}

func (m *Machine) onTurn(player game.Cell) {
	switch {
	case player == game.Empty || m.board.Full():
		m.state = game.Finished
		m.ui.SetStatus(m.resultText())
	case player == m.number:
		m.state = game.PlayerTurn
		m.ui.SetStatus(statusYourTurn)
	default:
		m.state = game.EnemyTurn
		m.ui.SetStatus(m.opponentName() + "'s turn")
	}
	m.ui.EnableNewGame()
}

func (m *Machine) resultText() string {
	if !m.hasLine {
		return statusGameOver
	}
	if m.board.At(m.line.From.Row, m.line.From.Col) == m.number {
		return statusYouWin
	}
	return m.opponentName() + " wins"
}

func (m *Machine) opponentName() string {
	if m.opponent != "" {
		return m.opponent
	}
	return fmt.Sprintf("Player %d", m.number.Opponent())
}

// ── Intents ──────────────────────────────────────────────────────────

// PlaceToken returns the frame for dropping a token in column, or false
// when it is not this player's turn.
func (m *Machine) PlaceToken(column int) (protocol.Message, bool) {
	if m.state != game.PlayerTurn || column < 0 || column >= game.Columns {
		return nil, false
	}
	return protocol.Place{Player: uint8(m.number), Column: uint8(column)}, true
}

// RequestNewGame always produces a frame; the server decides.
func (m *Machine) RequestNewGame() protocol.Message { return protocol.Clear{} }
