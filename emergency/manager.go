package emergency

import (
	"log"
	"sync"
	"time"

	"go-sentinel/types"
)

// Manager owns at most one Session per subject. Sessions leave the registry
// when they exit (false alarm or explicit close); a notified session stays
// visible so the UI can keep showing the terminal state.
type Manager struct {
	window       time.Duration
	notifier     Notifier
	lastPosition func(subjectID string) (types.Position, bool)

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(window time.Duration, notifier Notifier, lastPosition func(string) (types.Position, bool)) *Manager {
	return &Manager{
		window:       window,
		notifier:     notifier,
		lastPosition: lastPosition,
		sessions:     make(map[string]*Session),
	}
}

// Raise starts a connection-lost session for the subject with the given
// route snapshot. One session per subject at a time.
func (m *Manager) Raise(subjectID string, route types.RouteSummary) (*Session, error) {
	if subjectID == "" {
		return nil, ErrInvalidSubject
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[subjectID]; ok {
		return nil, ErrSessionExists
	}

	var lastPos func() (types.Position, bool)
	if m.lastPosition != nil {
		id := subjectID
		lastPos = func() (types.Position, bool) { return m.lastPosition(id) }
	}
	s := newSession(subjectID, route, m.window, m.notifier, lastPos)
	s.onExit = m.remove
	s.start()
	m.sessions[subjectID] = s
	log.Printf("Emergency raised for %s, family notified in %s unless resolved", subjectID, m.window)
	return s, nil
}

// Get returns the subject's session, if any.
func (m *Manager) Get(subjectID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[subjectID]
	return s, ok
}

// Has reports whether the subject has a session, in any state.
func (m *Manager) Has(subjectID string) bool {
	_, ok := m.Get(subjectID)
	return ok
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	if cur, ok := m.sessions[s.SubjectID]; ok && cur == s {
		delete(m.sessions, s.SubjectID)
	}
	m.mu.Unlock()
}

// CloseAll tears down every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
