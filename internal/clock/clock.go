// Package clock provides the time sources used by playback: a recurring
// tick scheduler and a monotonic logical sequence for frame ordering.
//
// Playback never reads the wall clock directly. Everything that advances
// over time goes through a Scheduler so tests can substitute a manual one.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a recurring schedule.
type Timer interface {
	// Stop cancels the schedule. After Stop returns, fn is not invoked
	// again. Stop is idempotent.
	Stop()
}

// Scheduler registers recurring callbacks.
type Scheduler interface {
	// Every invokes fn every d until the returned Timer is stopped.
	// fn must not call Stop on its own Timer.
	Every(d time.Duration, fn func()) Timer
}

// TickerScheduler schedules callbacks on time.Ticker.
type TickerScheduler struct{}

// Every starts a goroutine that calls fn on every tick.
func (TickerScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex // held while fn runs so Stop waits for an in-flight call
}

func (t *tickerTimer) loop(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			t.mu.Lock()
			select {
			case <-t.done:
				t.mu.Unlock()
				return
			default:
			}
			fn()
			t.mu.Unlock()
		}
	}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		t.mu.Lock()
		t.mu.Unlock() //nolint:staticcheck // wait for an in-flight fn
	})
}

// Sequence is a monotonic logical counter.
//
// Frames and session events are stamped with Next so that ordering is
// independent of wall-clock time and replays compare equal.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence returns a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt returns a sequence resuming after start.
// Used when appending to a session that already has recorded frames.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next increments the sequence and returns the new value.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last value handed out.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
