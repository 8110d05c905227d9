// Package clock provides the tick sources that drive mobile objects.
//
// A clock emits, on every tick, the elapsed time in milliseconds since its
// previous tick. Every clock is a hot multicast source: one producer feeds
// all subscribers in lockstep, so two consumers derived from the same clock
// always observe the same tick sequence.
//
// Frame is the live clock used by interactive hosts. Fixed is the
// synthetic clock used by the scenario runner and tests.
package clock

import (
	"errors"
	"time"

	"github.com/cxd309/motion-engine/internal/stream"
)

// Source is the tick contract consumed by mobile objects.
type Source = stream.Source[float64]

// ErrAlreadyRunning is returned by Run on a clock that has already run.
var ErrAlreadyRunning = errors.New("clock is already running")

// Millis converts a duration to the fractional milliseconds carried by ticks.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
