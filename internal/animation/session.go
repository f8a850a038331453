package animation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/pdscatter/internal/clock"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/metrics"
	"github.com/roach88/pdscatter/internal/projection"
)

// ErrSessionClosed is returned when submitting to a stopped session.
var ErrSessionClosed = errors.New("session closed")

// IDGenerator produces session ids.
// Implemented by UUIDv7Generator (production) and testutil.FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Snapshot is the last published state of a session. It is safe to read
// from any goroutine.
type Snapshot struct {
	SessionID string            `json:"session_id"`
	Seq       int64             `json:"seq"`
	Mode      Mode              `json:"mode"`
	Frame     *projection.Frame `json:"frame"`
}

// Session owns the selection and the player for one view.
//
// Thread-safety model:
//   - Apply, RunPending, Refresh: session goroutine only
//   - Run: must be called from exactly one goroutine
//   - Enqueue, Submit, Snapshot, Stop, ID, Controls: safe from any goroutine
type Session struct {
	id       string
	table    *dataset.Table
	controls projection.Controls

	sel    projection.Selection
	player *Player
	seq    *clock.Sequence
	queue  *eventQueue
	latest atomic.Pointer[Snapshot]

	stopped  chan struct{}
	stopOnce sync.Once

	sched    clock.Scheduler
	interval time.Duration
	renderer Renderer
	recorder FrameRecorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	idGen    IDGenerator
	initial  *projection.Selection
	hasCtrls bool
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets the tick source. Default: clock.TickerScheduler.
func WithScheduler(sched clock.Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithInterval sets the tick period. Default: DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithRenderer sets the frame consumer.
func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithRecorder persists every rendered frame.
func WithRecorder(r FrameRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDGenerator sets the session id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.idGen = g }
}

// WithControls overrides the selector domains derived from the table.
func WithControls(c projection.Controls) Option {
	return func(s *Session) {
		s.controls = c
		s.hasCtrls = true
	}
}

// WithSelection sets the initial selection. Default: Controls.Default().
func WithSelection(sel projection.Selection) Option {
	return func(s *Session) { s.initial = &sel }
}

// NewSession creates an idle session over t.
// Returns a *projection.SelectionError if the initial selection is invalid.
func NewSession(t *dataset.Table, opts ...Option) (*Session, error) {
	if t == nil {
		return nil, errors.New("nil table")
	}

	s := &Session{
		table:    t,
		seq:      clock.NewSequence(),
		queue:    newEventQueue(),
		stopped:  make(chan struct{}),
		sched:    clock.TickerScheduler{},
		interval: DefaultInterval,
		logger:   slog.Default(),
		idGen:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.hasCtrls {
		s.controls = projection.NewControls(t)
	}
	s.sel = s.controls.Default()
	if s.initial != nil {
		s.sel = *s.initial
	}
	if err := s.controls.Validate(s.sel); err != nil {
		return nil, err
	}

	s.id = s.idGen.Generate()
	s.player = NewPlayer(s.sched, s.interval)
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Controls returns the selector domains.
func (s *Session) Controls() projection.Controls {
	return s.controls
}

// Selection returns the current selection. Session goroutine only; other
// goroutines read Snapshot.
func (s *Session) Selection() projection.Selection {
	return s.sel
}

// Mode returns the playback mode. Session goroutine only.
func (s *Session) Mode() Mode {
	return s.player.Mode()
}

// Player exposes the playback state machine. Session goroutine only.
func (s *Session) Player() *Player {
	return s.player
}

// Snapshot returns the last published state. The second result is false
// until the first frame has been rendered.
func (s *Session) Snapshot() (Snapshot, bool) {
	p := s.latest.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}

// Refresh projects and renders the current selection without changing it.
// Call it once before Run to draw the initial frame.
func (s *Session) Refresh(ctx context.Context) error {
	frame, err := s.project(s.sel)
	if err != nil {
		return err
	}
	return s.render(ctx, frame)
}

// Apply applies one event. It is the only path that mutates the selection
// or the player.
func (s *Session) Apply(ctx context.Context, ev Event) error {
	s.logger.Debug("applying event", "session", s.id, "event", ev.String())

	switch ev.Type {
	case EventSetYear:
		next := s.sel
		next.Year = ev.Year
		return s.commit(ctx, next)

	case EventSelectCountry:
		next := s.sel
		next.Country = ev.Country
		return s.commit(ctx, next)

	case EventSelectCategory:
		next := s.sel
		next.Category = ev.Category
		return s.commit(ctx, next)

	case EventSetSelection:
		return s.commit(ctx, ev.Patch.Merge(s.sel))

	case EventToggle:
		mode := s.player.Toggle(s.onTick)
		s.metrics.IncrementToggle(mode.String())
		s.logger.Info("playback toggled",
			"session", s.id,
			"mode", mode.String(),
			"year", s.sel.Year,
			"generation", s.player.Generation(),
		)
		if snap := s.latest.Load(); snap != nil {
			next := *snap
			next.Mode = mode
			s.latest.Store(&next)
		}
		return nil

	case EventTick:
		if !s.player.Current(ev.Generation) {
			s.metrics.IncrementStaleTick()
			s.logger.Debug("stale tick dropped",
				"session", s.id,
				"generation", ev.Generation,
				"current", s.player.Generation(),
			)
			return nil
		}
		s.metrics.IncrementTick()
		next := s.sel
		next.Year = NextYear(s.sel.Year, s.controls.YearMin, s.controls.YearMax)
		return s.commit(ctx, next)

	default:
		return fmt.Errorf("unknown event type: %d", ev.Type)
	}
}

// commit validates next, projects it, and only then replaces the selection.
func (s *Session) commit(ctx context.Context, next projection.Selection) error {
	if err := s.controls.Validate(next); err != nil {
		var se *projection.SelectionError
		if errors.As(err, &se) {
			s.metrics.IncrementRejected(se.Field)
		}
		return err
	}

	frame, err := s.project(next)
	if err != nil {
		return err
	}
	s.sel = next
	return s.render(ctx, frame)
}

func (s *Session) project(sel projection.Selection) (*projection.Frame, error) {
	start := time.Now()
	frame, err := projection.Project(s.table, sel)
	s.metrics.ObserveProjection(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", sel, err)
	}
	return frame, nil
}

func (s *Session) render(ctx context.Context, frame *projection.Frame) error {
	seq := s.seq.Next()
	s.latest.Store(&Snapshot{
		SessionID: s.id,
		Seq:       seq,
		Mode:      s.player.Mode(),
		Frame:     frame,
	})

	if s.renderer != nil {
		if err := s.renderer.Render(ctx, frame); err != nil {
			return fmt.Errorf("render frame %d: %w", seq, err)
		}
	}
	if s.recorder != nil {
		if err := s.recorder.RecordFrame(ctx, s.id, seq, frame); err != nil {
			return fmt.Errorf("record frame %d: %w", seq, err)
		}
	}
	return nil
}

// onTick runs on the scheduler's goroutine.
func (s *Session) onTick(generation uint64) {
	s.queue.Enqueue(Tick(generation))
}

// Enqueue submits ev for the Run loop without waiting.
// Returns false if the session has been stopped.
func (s *Session) Enqueue(ev Event) bool {
	ev.done = nil
	return s.queue.Enqueue(ev)
}

// Submit enqueues ev and waits until the Run loop has applied it.
func (s *Session) Submit(ctx context.Context, ev Event) error {
	ev.done = make(chan error, 1)
	if !s.queue.Enqueue(ev) {
		return ErrSessionClosed
	}
	select {
	case err := <-ev.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrSessionClosed
	}
}

// QueueLen returns the number of events waiting to be applied.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// RunPending applies queued events on the calling goroutine until the queue
// is empty and returns how many were applied. It stops at the first error.
// Use it instead of Run when the caller drives the scheduler.
func (s *Session) RunPending(ctx context.Context) (int, error) {
	n := 0
	for {
		ev, ok := s.queue.TryDequeue()
		if !ok {
			return n, nil
		}
		n++
		if err := s.process(ctx, ev); err != nil {
			return n, fmt.Errorf("apply %s: %w", ev, err)
		}
	}
}

// Run applies queued events until ctx is cancelled or Stop is called.
// Playback is stopped before Run returns.
//
// A failing event is logged and the loop continues; Submit callers receive
// the error directly.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session starting", "session", s.id, "selection", s.sel.String())
	defer s.finish()

	for {
		ev, ok := s.queue.TryDequeue()
		if ok {
			if err := s.process(ctx, ev); err != nil && ev.done == nil {
				s.logger.Error("event failed",
					"session", s.id,
					"event", ev.String(),
					"error", err,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("session stopping: context cancelled", "session", s.id)
			return ctx.Err()

		case <-s.queue.Wait():
			// The signal channel is closed by Stop.
			if s.queue.Len() == 0 && s.queue.Closed() {
				s.logger.Info("session stopping: queue closed", "session", s.id)
				return nil
			}
		}
	}
}

func (s *Session) process(ctx context.Context, ev Event) error {
	err := s.Apply(ctx, ev)
	if ev.done != nil {
		ev.done <- err
	}
	return err
}

func (s *Session) finish() {
	s.queue.Close()
	s.player.Stop()
	s.stopOnce.Do(func() { close(s.stopped) })
}

// Stop closes the session to new events. A running Run loop applies what
// is already queued and returns.
func (s *Session) Stop() {
	s.queue.Close()
}
