package mobile

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/stream"
)

const frame = 10 * time.Millisecond

// ticksFor returns the number of 10 ms frames in the given seconds.
func ticksFor(seconds float64) int {
	return int(seconds * 100)
}

// recorder keeps every sample an axis stream emits.
type recorder struct {
	samples []kinematics.Sample
	err     error
	done    bool
}

func record(t *testing.T, src stream.Source[kinematics.Sample]) *recorder {
	t.Helper()
	r := &recorder{}
	src.Subscribe(func(s kinematics.Sample) {
		r.samples = append(r.samples, s)
	}, func(err error) {
		r.done = true
		r.err = err
	})
	return r
}

func (r *recorder) last() kinematics.Sample {
	if len(r.samples) == 0 {
		return kinematics.Sample{}
	}
	return r.samples[len(r.samples)-1]
}

func newObject(t *testing.T, ticks int, opts ...Option) (*Object, *clock.Fixed) {
	t.Helper()
	c := clock.NewFixed(frame, ticks)
	return New(c, opts...), c
}

// logEntry is one record captured by memLogger.
type logEntry struct {
	level string
	msg   string
}

type memLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *memLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *memLogger) Info(msg string, _ ...any)  { l.add("info", msg) }
func (l *memLogger) Error(msg string, _ ...any) { l.add("error", msg) }
func (l *memLogger) Debug(msg string, _ ...any) { l.add("debug", msg) }
func (l *memLogger) Warn(msg string, _ ...any)  { l.add("warn", msg) }

func (l *memLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func (l *memLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprint(l.entries)
}
