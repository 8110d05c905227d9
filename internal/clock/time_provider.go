package clock

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock readings to the live clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system monotonic clock.
type RealTimeProvider struct{}

// NewRealTimeProvider creates a monotonic time provider.
func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// SteppedTimeProvider moves forward by a fixed step on every reading. A
// Frame using it keeps its live pacing but reports exactly one step per
// tick, so scheduler jitter never reaches the integration.
type SteppedTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewSteppedTimeProvider starts at start and advances by step per reading.
// A zero step freezes time until Advance is called.
func NewSteppedTimeProvider(start time.Time, step time.Duration) *SteppedTimeProvider {
	return &SteppedTimeProvider{now: start, step: max(step, 0)}
}

// Now returns the current reading, then moves it forward by one step.
func (p *SteppedTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.now
	p.now = p.now.Add(p.step)
	return t
}

// Advance moves time forward by d on top of the regular step.
func (p *SteppedTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}
