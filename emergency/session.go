package emergency

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-sentinel/types"
)

// State is the lifecycle of one emergency session.
type State int

const (
	// StateActive means the countdown is running. The "alarm raised" screen
	// of the original UI is a framing of this same state, not a separate
	// transition target.
	StateActive State = iota
	// StateFamilyNotified is terminal for the session: the alert has been
	// delivered exactly once and must not be re-sent.
	StateFamilyNotified
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFamilyNotified:
		return "familyNotified"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidSubject  = errors.New("emergency: subject id is required")
	ErrSessionExists   = errors.New("emergency: subject already has an active session")
	ErrNoSession       = errors.New("emergency: no active session for subject")
	ErrSessionClosed   = errors.New("emergency: session already closed")
	ErrAlreadyNotified = errors.New("emergency: family already notified")
	ErrNotifyInFlight  = errors.New("emergency: notification already in progress")
)

// Notifier delivers the escalation alert. Failures must be reported back so
// the caller can retry; a failed send never counts as "notified".
type Notifier interface {
	NotifyLost(ctx context.Context, alert types.AlertPayload) error
}

// Session is one connection-lost emergency for one subject. It owns a
// one-second countdown; expiry or a manual action notifies the family, a
// confirmed false alarm exits without ever touching the notifier.
type Session struct {
	ID        string
	SubjectID string
	RaisedAt  time.Time
	Deadline  time.Time

	route        types.RouteSummary
	notifier     Notifier
	lastPosition func() (types.Position, bool)

	mu        sync.Mutex
	state     State
	closed    bool
	remaining int
	sending   bool
	stopTick  func()
	onExit    func(*Session)
}

// Status is a point-in-time snapshot safe to hand to the UI.
type Status struct {
	ID               string             `json:"sessionId"`
	SubjectID        string             `json:"userId"`
	State            string             `json:"state"`
	RaisedAt         time.Time          `json:"raisedAt"`
	Deadline         time.Time          `json:"deadline"`
	RemainingSeconds int                `json:"remainingSeconds"`
	Route            types.RouteSummary `json:"route"`
}

func newSession(subjectID string, route types.RouteSummary, window time.Duration, notifier Notifier, lastPosition func() (types.Position, bool)) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		SubjectID:    subjectID,
		RaisedAt:     now,
		Deadline:     now.Add(window),
		route:        route,
		notifier:     notifier,
		lastPosition: lastPosition,
		state:        StateActive,
		remaining:    int(window / time.Second),
	}
}

// start attaches the real one-second ticker. Tests drive tick directly.
func (s *Session) start() {
	ticker := time.NewTicker(time.Second)
	quit := make(chan struct{})
	var once sync.Once
	s.mu.Lock()
	s.stopTick = func() {
		once.Do(func() {
			ticker.Stop()
			close(quit)
		})
	}
	s.mu.Unlock()
	go func() {
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-quit:
				return
			}
		}
	}()
}

// tick decrements the countdown once. On expiry it attempts the automatic
// notification; a failed attempt leaves the session Active so the next tick
// retries rather than silently marking the family notified.
func (s *Session) tick() {
	s.mu.Lock()
	if s.closed || s.state != StateActive || s.sending {
		s.mu.Unlock()
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.mu.Unlock()
		return
	}
	s.sending = true
	s.mu.Unlock()

	if err := s.sendAlert(context.Background()); err != nil {
		log.Printf("Automatic family notification for %s failed: %v", s.SubjectID, err)
	}
}

// NotifyFamily sends the alert now, cancelling the countdown. A second call
// once notified is a no-op. On failure the session stays Active and the
// error is returned so the caller can offer a retry.
func (s *Session) NotifyFamily(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateFamilyNotified {
		s.mu.Unlock()
		return nil
	}
	if s.sending {
		s.mu.Unlock()
		return ErrNotifyInFlight
	}
	s.sending = true
	s.mu.Unlock()

	return s.sendAlert(ctx)
}

// sendAlert is entered with s.sending already claimed by the caller.
func (s *Session) sendAlert(ctx context.Context) error {
	alert := types.AlertPayload{
		SubjectID: s.SubjectID,
		Status:    types.AlertStatusLost,
	}
	route := s.route
	alert.Route = &route
	if s.lastPosition != nil {
		if pos, ok := s.lastPosition(); ok {
			alert.LastKnownPosition = &pos
		}
	}

	err := s.notifier.NotifyLost(ctx, alert)

	s.mu.Lock()
	s.sending = false
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("emergency: notifying family for %s: %w", s.SubjectID, err)
	}
	s.state = StateFamilyNotified
	s.remaining = 0
	stop := s.stopTick
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	return nil
}

// FalseAlarm exits the session without notifying anyone. Only permitted
// while Active; once the alert has gone out there is no retraction path.
func (s *Session) FalseAlarm() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateFamilyNotified {
		s.mu.Unlock()
		return ErrAlreadyNotified
	}
	if s.sending {
		s.mu.Unlock()
		return ErrNotifyInFlight
	}
	s.closed = true
	stop := s.stopTick
	exit := s.onExit
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if exit != nil {
		exit(s)
	}
	return nil
}

// Close releases the countdown in any state. Idempotent; stray ticks after
// Close are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stopTick
	exit := s.onExit
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if exit != nil {
		exit(s)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining is the countdown in whole seconds.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:               s.ID,
		SubjectID:        s.SubjectID,
		State:            s.state.String(),
		RaisedAt:         s.RaisedAt,
		Deadline:         s.Deadline,
		RemainingSeconds: s.remaining,
		Route:            s.route,
	}
}
