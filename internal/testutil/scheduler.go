package testutil

import (
	"sync"
	"time"

	"github.com/roach88/pdscatter/internal/clock"
)

// ManualScheduler is a clock.Scheduler driven by the test.
//
// Timers never fire on their own. Fire invokes the callbacks of every live
// timer once, which makes tick-driven playback deterministic.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualScheduler struct {
	mu        sync.Mutex
	timers    []*manualTimer
	scheduled int
	cancelled int
}

// NewManualScheduler creates a scheduler with no timers.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn. The interval is recorded but not honoured.
func (s *ManualScheduler) Every(d time.Duration, fn func()) clock.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{sched: s, interval: d, fn: fn}
	s.timers = append(s.timers, t)
	s.scheduled++
	return t
}

// Fire invokes each live timer's callback once and returns how many fired.
func (s *ManualScheduler) Fire() int {
	live := s.live()
	for _, t := range live {
		t.fn()
	}
	return len(live)
}

// FireN calls Fire n times.
func (s *ManualScheduler) FireN(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

// Active returns the number of timers not yet stopped.
func (s *ManualScheduler) Active() int {
	return len(s.live())
}

// Scheduled returns the total number of Every calls.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Cancelled returns the total number of timers stopped.
func (s *ManualScheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Intervals returns the interval of every timer ever scheduled, in order.
func (s *ManualScheduler) Intervals() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.timers))
	for i, t := range s.timers {
		out[i] = t.interval
	}
	return out
}

func (s *ManualScheduler) live() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTimer
	for _, t := range s.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

type manualTimer struct {
	sched    *ManualScheduler
	interval time.Duration
	fn       func()
	stopped  bool // guarded by sched.mu
}

func (t *manualTimer) Stop() {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.sched.cancelled++
}
