package animation

import (
	"time"

	"github.com/roach88/pdscatter/internal/clock"
)

// DefaultInterval is the playback tick period.
const DefaultInterval = 500 * time.Millisecond

// Mode is the playback state.
type Mode int

const (
	// Idle is the initial state; no timer is scheduled.
	Idle Mode = iota
	// Playing advances the year on every tick.
	Playing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Player is the play/pause state machine.
//
// Player is not safe for concurrent use. A Session calls it only from the
// goroutine applying events.
type Player struct {
	sched    clock.Scheduler
	interval time.Duration

	mode       Mode
	timer      clock.Timer
	generation uint64
}

// NewPlayer returns an idle player scheduling on sched every interval.
// A non-positive interval selects DefaultInterval.
func NewPlayer(sched clock.Scheduler, interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{sched: sched, interval: interval}
}

// Mode returns the current state.
func (p *Player) Mode() Mode {
	return p.mode
}

// Generation identifies the live timer. It increases every time a timer is
// scheduled.
func (p *Player) Generation() uint64 {
	return p.generation
}

// Interval returns the tick period.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Toggle flips between Idle and Playing and returns the new mode.
//
// Entering Playing schedules a recurring timer that calls onTick with the
// generation it was scheduled under. Leaving Playing stops the timer before
// Toggle returns.
func (p *Player) Toggle(onTick func(generation uint64)) Mode {
	if p.mode == Playing {
		p.Stop()
		return p.mode
	}

	p.cancel()
	p.generation++
	gen := p.generation
	p.timer = p.sched.Every(p.interval, func() { onTick(gen) })
	p.mode = Playing
	return p.mode
}

// Stop cancels any live timer and returns to Idle.
func (p *Player) Stop() {
	p.cancel()
	p.mode = Idle
}

// Current reports whether a tick of generation should be applied.
func (p *Player) Current(generation uint64) bool {
	return p.mode == Playing && p.timer != nil && generation == p.generation
}

func (p *Player) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// NextYear advances year by one inside [min, max], wrapping to min after max.
// max itself is a valid frame.
func NextYear(year, min, max int) int {
	next := year + 1
	if next > max || next < min {
		return min
	}
	return next
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
