package main

import (
	"errors"
	"sync"

	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/mobile"
	"github.com/cxd309/motion-engine/internal/stream"
)

// bouncer drops an object under gravity and bounces it off a floor by
// reversing its Y velocity. It observes the object's Y stream on the clock
// goroutine and issues commands from there.
type bouncer struct {
	obj         *mobile.Object
	gravity     float64
	restitution float64
	threshold   float64

	// onImpact runs on the clock goroutine after each floor contact.
	onImpact func(impact)

	mu      sync.Mutex
	base    float64 // cumulated Y space at the top of the arena
	floor   float64
	settled bool
	sub     *stream.Subscription
}

func newBouncer(obj *mobile.Object, gravity, restitution float64, floor float64) *bouncer {
	b := &bouncer{
		obj:         obj,
		gravity:     gravity,
		restitution: restitution,
		threshold:   obj.Limits().VelocityZeroThreshold,
		floor:       floor,
		settled:     true,
		onImpact:    func(impact) {},
	}
	b.sub = obj.Y().Subscribe(b.observe, nil)
	return b
}

// drop restarts the fall from the top of the arena.
func (b *bouncer) drop() error {
	b.mu.Lock()
	b.base = b.obj.SpaceTravelledY()
	b.settled = false
	b.mu.Unlock()

	if err := b.obj.SetVelocityY(0); err != nil {
		return err
	}
	return b.obj.AccelerateY(b.gravity)
}

func (b *bouncer) setFloor(floor float64) {
	b.mu.Lock()
	b.floor = floor
	b.mu.Unlock()
}

// height returns the distance fallen since the last drop.
func (b *bouncer) height() float64 {
	b.mu.Lock()
	base := b.base
	b.mu.Unlock()
	return b.obj.SpaceTravelledY() - base
}

func (b *bouncer) resting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settled
}

func (b *bouncer) observe(s kinematics.Sample) {
	b.mu.Lock()
	if b.settled || s.Velocity <= 0 || s.CumulatedSpace-b.base < b.floor {
		b.mu.Unlock()
		return
	}
	rebound := s.Velocity * b.restitution
	settled := rebound < b.threshold
	b.settled = settled
	b.mu.Unlock()

	var err error
	if settled {
		err = errors.Join(b.obj.AccelerateY(0), b.obj.SetVelocityY(0))
	} else {
		err = b.obj.SetVelocityY(-rebound)
	}
	b.onImpact(impact{speed: s.Velocity, settled: settled, err: err})
}

func (b *bouncer) close() {
	b.sub.Unsubscribe()
}
