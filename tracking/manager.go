package tracking

import (
	"sync"
	"time"

	"go-sentinel/types"
)

// Manager owns one Tracker per subject. Samples arriving over HTTP are fed
// through Deliver; the first sample for a subject starts its tracker, the
// same way the original map screen begins watching on mount.
type Manager struct {
	relay RelaySink

	mu     sync.Mutex
	active map[string]*session
}

type session struct {
	tracker  *Tracker
	provider *PushProvider
}

func NewManager(relay RelaySink) *Manager {
	return &Manager{relay: relay, active: make(map[string]*session)}
}

// Start begins tracking a subject. Idempotent: an already-tracked subject
// keeps its running tracker.
func (m *Manager) Start(subjectID string) error {
	_, err := m.ensure(subjectID)
	return err
}

// ensure returns the subject's session, creating one under the lock if it
// is not tracked yet. The caller may use the session even if Stop removed
// it concurrently; pushes to a closed provider are dropped.
func (m *Manager) ensure(subjectID string) (*session, error) {
	if subjectID == "" {
		return nil, ErrInvalidSubject
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.active[subjectID]; ok {
		return sess, nil
	}
	provider := NewPushProvider()
	tracker, err := StartTracker(subjectID, provider, m.relay)
	if err != nil {
		return nil, err
	}
	sess := &session{tracker: tracker, provider: provider}
	m.active[subjectID] = sess
	return sess, nil
}

// Deliver routes one raw sample to the subject's tracker, starting one if
// needed.
func (m *Manager) Deliver(subjectID string, s Sample) error {
	sess, err := m.ensure(subjectID)
	if err != nil {
		return err
	}
	sess.provider.Push(s)
	return nil
}

// Stop tears down the subject's tracker. Safe to call for unknown subjects.
func (m *Manager) Stop(subjectID string) {
	m.mu.Lock()
	sess, ok := m.active[subjectID]
	delete(m.active, subjectID)
	m.mu.Unlock()
	if ok {
		sess.tracker.Stop()
		sess.provider.Close()
	}
}

// Current returns the subject's last accepted position.
func (m *Manager) Current(subjectID string) (types.Position, bool) {
	m.mu.Lock()
	sess, ok := m.active[subjectID]
	m.mu.Unlock()
	if !ok {
		return types.Position{}, false
	}
	return sess.tracker.CurrentPosition()
}

// Tracking reports whether the subject has a live tracker.
func (m *Manager) Tracking(subjectID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[subjectID]
	return ok
}

// StaleSubjects lists tracked subjects whose last accepted sample is older
// than the threshold. The watchdog treats these as connection-lost.
func (m *Manager) StaleSubjects(threshold time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	now := time.Now()
	for id, sess := range m.active {
		if now.Sub(sess.tracker.LastSeen()) > threshold {
			stale = append(stale, id)
		}
	}
	return stale
}
