// Package animation drives the scatter view over time.
//
// A Session owns the current Selection and a Player. Every mutation, whether
// it comes from a user control or a playback tick, is an Event applied by
// Session.Apply. Run consumes queued events on a single goroutine, so
// selection state is never written concurrently.
//
// Player is the two-state play/pause machine. It schedules a recurring tick
// through an injected clock.Scheduler and always cancels its current timer
// before scheduling a new one, so at most one timer is live. Ticks carry the
// generation of the timer that produced them; a tick from a cancelled timer
// that was already queued is discarded when it is applied.
package animation
