package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	c4err "c4net/internal/errors"
	"c4net/internal/metrics"
	"c4net/util"
)

// Manager pairs joining connections two at a time.  At most one session
// waits for a second player; the next joiner always fills it.
type Manager struct {
	log   *util.Logger
	stats *metrics.Collector

	mu       sync.Mutex
	waiting  *Session
	sessions map[string]*Session
}

func NewManager(stats *metrics.Collector, logger *util.Logger) *Manager {
	return &Manager{
		log:      logger.With("matchmaking"),
		stats:    stats,
		sessions: make(map[string]*Session),
	}
}

// Join seats p in the waiting session as player 2, or in a fresh one as
// player 1, then rebinds p to that session.  It is called from p's read
// loop, so p's next frame already reaches the session.
//
// The manager lock only covers choosing the seat; seating happens under
// the session's own lock.  If the chosen session ended in between (its
// lone player left), Join starts over.
func (m *Manager) Join(p Peer, name string) (int, error) {
	for {
		s, number := m.pair()
		err := s.seat(p, number, name)
		if errors.Is(err, c4err.ErrSessionEnded) {
			m.log.Verbose("session %s ended before %s was seated, retrying", s.ID(), p)
			continue
		}
		if err != nil {
			return 0, err
		}
		p.Rebind(s)
		return number, nil
	}
}

func (m *Manager) pair() (*Session, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.waiting; s != nil {
		m.waiting = nil
		return s, 2
	}
	s := newSession(uuid.NewString(), m.forget, m.stats, m.log)
	m.sessions[s.id] = s
	m.waiting = s
	m.stats.SessionOpened()
	m.log.Verbose("opened session %s", s.id)
	return s, 1
}

// forget drops an ended session.  A lone waiting player that leaves
// must not strand the next joiner.
func (m *Manager) forget(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.waiting == s {
		m.waiting = nil
	}
	delete(m.sessions, s.id)
	m.log.Verbose("closed session %s", s.id)
}

// Sessions returns the number of live sessions.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Session looks up a live session by id.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// ── Intents before joining ───────────────────────────────────────────

func (m *Manager) PlaceToken(p Peer, player, column int) {
	m.stats.MoveIgnored()
	m.log.Verbose("%s placed a token before joining; ignored", p)
}

func (m *Manager) NewGame(p Peer) {
	m.log.Verbose("%s asked for a new game before joining; ignored", p)
}

func (m *Manager) Disconnect(p Peer) {
	m.log.Verbose("%s left before joining", p)
}
