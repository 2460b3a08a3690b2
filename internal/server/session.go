package server

import (
	"sync"

	c4err "c4net/internal/errors"
	"c4net/internal/game"
	"c4net/internal/metrics"
	"c4net/util"
)

type player struct {
	peer Peer
	name string
}

// Session is one paired game.  All state, including the listener set,
// is guarded by mu, and every outbound frame is written while mu is
// held: a move and its broadcast complete before the next intent from
// either player is looked at.
type Session struct {
	id    string
	log   *util.Logger
	stats *metrics.Collector
	onEnd func(*Session)

	mu        sync.Mutex
	state     game.SessionState
	board     game.Board
	turn      game.Cell
	line      game.Line
	hasLine   bool
	players   [2]player
	listeners []Peer
	failed    []Peer // writes failed during the current operation
	ending    bool   // became Terminated during the current operation
}

func newSession(id string, onEnd func(*Session), stats *metrics.Collector, logger *util.Logger) *Session {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return &Session{
		id:    id,
		log:   logger.With("session " + short),
		stats: stats,
		onEnd: onEnd,
		state: game.AwaitingOpponent,
		turn:  game.Player1,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() game.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Turn returns the player whose move it is, or 0 when nobody may move.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != game.InProgress {
		return 0
	}
	return int(s.turn)
}

func (s *Session) WinLine() (game.Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line, s.hasLine
}

func (s *Session) Cell(row, col int) game.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.At(row, col)
}

// do runs fn under the lock, then evicts listeners whose writes failed
// and, if the session ended, tells the manager after unlocking.
func (s *Session) do(fn func()) {
	s.mu.Lock()
	fn()
	s.evictFailedLocked()
	ended := s.ending
	s.ending = false
	s.mu.Unlock()

	if ended {
		s.stats.SessionClosed()
		if s.onEnd != nil {
			s.onEnd(s)
		}
	}
}

// ── Matchmaking ──────────────────────────────────────────────────────

// seat puts p in slot number and tells it so.  Whichever of the two
// seats completes the pair starts the game.
func (s *Session) seat(p Peer, number int, name string) error {
	var err error
	s.do(func() {
		if s.state == game.Terminated {
			err = c4err.ErrSessionEnded
			return
		}
		s.players[number-1] = player{peer: p, name: name}
		s.listeners = append(s.listeners, p)
		s.log.Verbose("%s seated as player %d (%q)", p, number, name)

		s.send(p, func(p Peer) error { return p.InformPlayerNumber(number) })

		if s.players[0].peer != nil && s.players[1].peer != nil && s.state == game.AwaitingOpponent {
			s.initiateGameLocked()
		}
	})
	return err
}

func (s *Session) initiateGameLocked() {
	s.state = game.InProgress
	s.turn = game.Player1
	s.log.Info("game starts: %q vs %q", s.players[0].name, s.players[1].name)

	for i, pl := range s.players {
		number, name := i+1, pl.name
		s.broadcast(func(p Peer) error { return p.InformNewPlayer(number, name) })
	}
	s.broadcast(func(p Peer) error { return p.AnnounceTurn(int(game.Player1)) })
}

// ── Listener ─────────────────────────────────────────────────────────

// Join on a session means the client sent a second J frame.
func (s *Session) Join(p Peer, name string) (int, error) {
	return 0, c4err.ErrAlreadyJoined
}

// PlaceToken applies a move.  Anything illegal is dropped without a
// reply: wrong state, a player number that is not the sender's seat,
// out of turn, or a bad or full column.
func (s *Session) PlaceToken(p Peer, playerNum, column int) {
	s.do(func() {
		if s.state != game.InProgress || playerNum != s.seatOf(p) || game.Cell(playerNum) != s.turn {
			s.ignore(p, "move by %d out of turn (state %s, turn %d)", playerNum, s.state, s.turn)
			return
		}
		owner := s.turn
		row, err := s.board.Drop(column, owner)
		if err != nil {
			s.ignore(p, "move by %d in column %d: %v", playerNum, column, err)
			return
		}
		s.stats.MoveApplied()
		s.broadcast(func(p Peer) error { return p.TokenPlaced(int(owner), row, column) })

		if line, ok := game.Detect(&s.board, row, column, owner); ok {
			s.line, s.hasLine = line, true
			s.state = game.GameOver
			s.stats.GameWon()
			s.log.Info("player %d wins along %v", owner, line)
			s.broadcast(func(p Peer) error { return p.AnnounceTurn(0) })
			return
		}
		if s.board.Full() {
			s.state = game.GameOver
			s.stats.GameDrawn()
			s.log.Info("draw")
			s.broadcast(func(p Peer) error { return p.AnnounceTurn(0) })
			return
		}
		s.turn = owner.Opponent()
		next := int(s.turn)
		s.broadcast(func(p Peer) error { return p.AnnounceTurn(next) })
	})
}

// NewGame restarts a finished game with player 1 to move.
func (s *Session) NewGame(p Peer) {
	s.do(func() {
		if s.state != game.GameOver || s.seatOf(p) == 0 {
			s.log.Verbose("new game from %s ignored in state %s", p, s.state)
			return
		}
		s.board.Reset()
		s.line, s.hasLine = game.Line{}, false
		s.turn = game.Player1
		s.state = game.InProgress
		s.log.Info("new game requested by %s", p)

		s.broadcast(func(p Peer) error { return p.BoardCleared() })
		s.broadcast(func(p Peer) error { return p.AnnounceTurn(int(game.Player1)) })
	})
}

// Disconnect removes p and ends the session, telling the other player.
func (s *Session) Disconnect(p Peer) {
	s.do(func() {
		if !s.removeListenerLocked(p) {
			return
		}
		s.log.Info("%s left", p)
		if s.state != game.Terminated {
			s.terminateLocked()
		}
	})
}

// ── Internal helpers (mu held) ───────────────────────────────────────

func (s *Session) seatOf(p Peer) int {
	for i, pl := range s.players {
		if pl.peer == p {
			return i + 1
		}
	}
	return 0
}

func (s *Session) ignore(p Peer, format string, args ...interface{}) {
	s.stats.MoveIgnored()
	s.log.Verbose("ignored from %s: "+format, append([]interface{}{p}, args...)...)
}

// broadcast writes to a snapshot of the listener set.  Failures are
// collected and handled once the whole operation is done, so a dead
// socket never stops delivery to the other player.
func (s *Session) broadcast(write func(Peer) error) {
	for _, p := range append([]Peer(nil), s.listeners...) {
		s.send(p, write)
	}
}

func (s *Session) send(p Peer, write func(Peer) error) {
	if s.hasFailed(p) {
		return
	}
	if err := write(p); err != nil {
		s.log.Warn("write to %s: %v", p, err)
		s.failed = append(s.failed, p)
	}
}

func (s *Session) hasFailed(p Peer) bool {
	for _, f := range s.failed {
		if f == p {
			return true
		}
	}
	return false
}

func (s *Session) evictFailedLocked() {
	if len(s.failed) == 0 {
		return
	}
	failed := s.failed
	s.failed = nil
	for _, p := range failed {
		s.removeListenerLocked(p)
		p.Close() //nolint:errcheck
	}
	if s.state != game.Terminated {
		s.terminateLocked()
	}
}

// terminateLocked sends Q to whoever is still listening and makes the
// session unusable.
func (s *Session) terminateLocked() {
	for _, p := range s.listeners {
		if err := p.SessionEnded(); err != nil {
			s.log.Verbose("notify %s: %v", p, err)
		}
	}
	s.listeners = nil
	s.state = game.Terminated
	s.ending = true
	s.log.Info("session terminated")
}

func (s *Session) removeListenerLocked(p Peer) bool {
	for i, l := range s.listeners {
		if l == p {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}
