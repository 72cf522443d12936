package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go-sentinel/types"
)

var (
	ErrInvalidSubject      = errors.New("tracking: subject id is required")
	ErrProviderUnavailable = errors.New("tracking: location provider unavailable")
)

const relayTimeout = 10 * time.Second

// RelaySink receives every accepted sample. Delivery is best effort: a
// failed store is logged and superseded by the next sample, never retried.
type RelaySink interface {
	StoreLocation(ctx context.Context, subjectID string, pos types.Position) error
}

// Tracker owns the continuously-updated position of one subject. The last
// accepted sample is always readable even when the relay is failing.
type Tracker struct {
	subjectID string
	relay     RelaySink

	mu      sync.RWMutex
	last    *types.Position
	lastAt  time.Time
	sub     Subscription
	stopped bool
}

// StartTracker opens a provider subscription for the subject. The
// subscription stays live until Stop is called.
func StartTracker(subjectID string, provider Provider, relay RelaySink) (*Tracker, error) {
	if subjectID == "" {
		return nil, ErrInvalidSubject
	}
	if provider == nil {
		return nil, ErrProviderUnavailable
	}
	t := &Tracker{subjectID: subjectID, relay: relay, lastAt: time.Now()}
	sub, err := provider.Subscribe(SubscribeOptions{
		HighAccuracy: true,
		MaxSampleAge: 10 * time.Second,
		Timeout:      20 * time.Second,
	}, t.handleSample, t.handleProviderError)
	if err != nil {
		return nil, fmt.Errorf("tracking: subscribe for %s failed: %w", subjectID, err)
	}
	t.mu.Lock()
	t.sub = sub
	t.mu.Unlock()
	return t, nil
}

// handleSample validates and records one provider sample, then hands it to
// the relay without blocking the sampling path.
func (t *Tracker) handleSample(s Sample) {
	pos := types.Position{Latitude: s.Latitude, Longitude: s.Longitude, CapturedAt: s.CapturedAt}
	if pos.CapturedAt.IsZero() {
		pos.CapturedAt = time.Now()
	}
	if !pos.Valid() {
		log.Printf("Dropping invalid sample for %s: lat=%v lng=%v", t.subjectID, s.Latitude, s.Longitude)
		return
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.last = &pos
	t.lastAt = time.Now()
	relay := t.relay
	t.mu.Unlock()

	if relay == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
		defer cancel()
		if err := relay.StoreLocation(ctx, t.subjectID, pos); err != nil {
			log.Printf("Error relaying location for %s: %v", t.subjectID, err)
		}
	}()
}

func (t *Tracker) handleProviderError(err error) {
	log.Printf("Location provider error for %s: %v", t.subjectID, err)
}

// CurrentPosition is a non-blocking read of the most recent accepted sample.
func (t *Tracker) CurrentPosition() (types.Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return types.Position{}, false
	}
	return *t.last, true
}

// LastSeen is the wall-clock time of the last accepted sample, or of the
// tracker start when nothing has been accepted yet.
func (t *Tracker) LastSeen() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastAt
}

// Stop cancels the provider subscription. Safe to call more than once; no
// sample accepted after Stop can mutate the tracker.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	sub := t.sub
	t.sub = nil
	t.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}
