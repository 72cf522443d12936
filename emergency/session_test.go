package emergency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sentinel/types"
)

// countingNotifier records every delivered alert and can fail on demand.
type countingNotifier struct {
	mu       sync.Mutex
	calls    int32
	failWith error
	delay    time.Duration
	last     types.AlertPayload
}

func (n *countingNotifier) NotifyLost(ctx context.Context, alert types.AlertPayload) error {
	if n.delay > 0 {
		time.Sleep(n.delay)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	atomic.AddInt32(&n.calls, 1)
	n.last = alert
	return nil
}

func (n *countingNotifier) count() int32 {
	return atomic.LoadInt32(&n.calls)
}

func testRoute() types.RouteSummary {
	return types.RouteSummary{
		From:          types.Endpoint{Address: "Chennai, India", Lat: 13.0827, Lng: 80.2707},
		To:            types.Endpoint{Address: "Madurai, India", Lat: 9.9252, Lng: 78.1198},
		TransportMode: "car",
	}
}

func testSession(notifier Notifier, window time.Duration) *Session {
	pos := types.Position{Latitude: 13.05, Longitude: 80.25, CapturedAt: time.Now()}
	return newSession("user-1", testRoute(), window, notifier, func() (types.Position, bool) {
		return pos, true
	})
}

func TestCountdownNotifiesExactlyAtExpiry(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 900*time.Second)

	for i := 0; i < 899; i++ {
		s.tick()
	}
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, int32(0), notifier.count(), "no alert before the window expires")
	assert.Equal(t, 1, s.Remaining())

	s.tick()
	assert.Equal(t, StateFamilyNotified, s.State())
	assert.Equal(t, int32(1), notifier.count())

	// Stray ticks after the terminal state change nothing.
	s.tick()
	s.tick()
	assert.Equal(t, int32(1), notifier.count())
}

func TestExpiryPayloadCarriesSnapshot(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 2*time.Second)

	s.tick()
	s.tick()

	require.Equal(t, int32(1), notifier.count())
	notifier.mu.Lock()
	alert := notifier.last
	notifier.mu.Unlock()

	assert.Equal(t, "user-1", alert.SubjectID)
	assert.Equal(t, types.AlertStatusLost, alert.Status)
	require.NotNil(t, alert.Route)
	assert.Equal(t, "Chennai, India", alert.Route.From.Address)
	require.NotNil(t, alert.LastKnownPosition)
	assert.Equal(t, 13.05, alert.LastKnownPosition.Latitude)
}

func TestManualNotifyCancelsCountdown(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 900*time.Second)

	for i := 0; i < 5; i++ {
		s.tick()
	}
	require.NoError(t, s.NotifyFamily(context.Background()))
	assert.Equal(t, StateFamilyNotified, s.State())
	assert.Equal(t, int32(1), notifier.count())

	// A later stray tick has no further effect.
	s.tick()
	assert.Equal(t, int32(1), notifier.count())

	// Re-invoking manually is a no-op, not an error.
	require.NoError(t, s.NotifyFamily(context.Background()))
	assert.Equal(t, int32(1), notifier.count())
}

func TestNotifyFailureKeepsSessionActive(t *testing.T) {
	notifier := &countingNotifier{failWith: errors.New("webhook down")}
	s := testSession(notifier, 900*time.Second)

	err := s.NotifyFamily(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateActive, s.State(), "a failed send must not count as notified")
	assert.Equal(t, int32(0), notifier.count())

	// Retry succeeds once the sink recovers.
	notifier.mu.Lock()
	notifier.failWith = nil
	notifier.mu.Unlock()
	require.NoError(t, s.NotifyFamily(context.Background()))
	assert.Equal(t, StateFamilyNotified, s.State())
	assert.Equal(t, int32(1), notifier.count())
}

func TestExpiryRetriesAfterFailedSend(t *testing.T) {
	notifier := &countingNotifier{failWith: errors.New("webhook down")}
	s := testSession(notifier, 2*time.Second)

	s.tick()
	s.tick()
	assert.Equal(t, StateActive, s.State())

	notifier.mu.Lock()
	notifier.failWith = nil
	notifier.mu.Unlock()

	s.tick()
	assert.Equal(t, StateFamilyNotified, s.State())
	assert.Equal(t, int32(1), notifier.count())
}

func TestAtMostOneEscalationUnderConcurrency(t *testing.T) {
	notifier := &countingNotifier{delay: 10 * time.Millisecond}
	s := testSession(notifier, 900*time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.NotifyFamily(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, StateFamilyNotified, s.State())
	assert.Equal(t, int32(1), notifier.count())
}

func TestFalseAlarmExitsWithoutNotifying(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 900*time.Second)

	for i := 0; i < 10; i++ {
		s.tick()
	}
	require.NoError(t, s.FalseAlarm())
	assert.Equal(t, int32(0), notifier.count())

	// The session is gone: further actions report the closed state and the
	// timer never fires.
	assert.ErrorIs(t, s.FalseAlarm(), ErrSessionClosed)
	assert.ErrorIs(t, s.NotifyFamily(context.Background()), ErrSessionClosed)
	s.tick()
	assert.Equal(t, int32(0), notifier.count())
}

func TestFalseAlarmRejectedAfterNotify(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 900*time.Second)

	require.NoError(t, s.NotifyFamily(context.Background()))
	assert.ErrorIs(t, s.FalseAlarm(), ErrAlreadyNotified)
}

func TestCloseIsIdempotent(t *testing.T) {
	notifier := &countingNotifier{}
	s := testSession(notifier, 900*time.Second)

	s.Close()
	s.Close()
	s.tick()
	assert.Equal(t, int32(0), notifier.count())
}
