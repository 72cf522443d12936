package tracking

import (
	"sync"
	"time"
)

// Sample is one raw reading from a location provider, not yet validated.
type Sample struct {
	Latitude   float64
	Longitude  float64
	CapturedAt time.Time
}

// SubscribeOptions mirror the options a device geolocation watch accepts.
type SubscribeOptions struct {
	HighAccuracy bool
	MaxSampleAge time.Duration
	Timeout      time.Duration
}

// Subscription is a live provider watch. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Provider delivers position samples for one subject until unsubscribed.
type Provider interface {
	Subscribe(opts SubscribeOptions, onSample func(Sample), onError func(error)) (Subscription, error)
}

// PushProvider is a Provider fed by whoever receives samples off the wire.
// The HTTP ingest handler pushes into it and the tracker subscribes to it,
// which keeps the tracker unaware of where samples physically come from.
type PushProvider struct {
	mu       sync.Mutex
	onSample func(Sample)
	onError  func(error)
	closed   bool
}

func NewPushProvider() *PushProvider {
	return &PushProvider{}
}

func (p *PushProvider) Subscribe(opts SubscribeOptions, onSample func(Sample), onError func(error)) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrProviderUnavailable
	}
	p.onSample = onSample
	p.onError = onError
	return &pushSubscription{provider: p}, nil
}

// Push delivers one sample to the current subscriber, if any.
func (p *PushProvider) Push(s Sample) {
	p.mu.Lock()
	cb := p.onSample
	p.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

// Fail reports a provider-side error to the subscriber.
func (p *PushProvider) Fail(err error) {
	p.mu.Lock()
	cb := p.onError
	p.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// Close marks the provider as unavailable. Further Subscribe calls fail and
// pending pushes are dropped.
func (p *PushProvider) Close() {
	p.mu.Lock()
	p.closed = true
	p.onSample = nil
	p.onError = nil
	p.mu.Unlock()
}

type pushSubscription struct {
	once     sync.Once
	provider *PushProvider
}

func (s *pushSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.provider.mu.Lock()
		s.provider.onSample = nil
		s.provider.onError = nil
		s.provider.mu.Unlock()
	})
}
