package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/pdscatter/internal/animation"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/metrics"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/testutil"
)

// TraceEvent records the session state after one step.
type TraceEvent struct {
	Step  int    `json:"step"`
	Event string `json:"event"`

	// Fired is the number of ticks delivered by a tick step.
	Fired int `json:"fired,omitempty"`

	// Error is set when the session rejected the step.
	Error string `json:"error,omitempty"`

	Seq      int64  `json:"seq"`
	Mode     string `json:"mode"`
	Year     int    `json:"year"`
	Country  string `json:"country"`
	Category string `json:"category"`
	Points   int    `json:"points"`
	Overlay  int    `json:"overlay"`
}

// Result is the outcome of running a script.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Frames is the number of frames rendered.
	Frames int `json:"frames"`

	// Trace has one entry for the initial frame and one per step.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed assertion.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

type config struct {
	renderer  animation.Renderer
	recorder  animation.FrameRecorder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	sessionID string
}

// Option configures Run.
type Option func(*config)

// WithRenderer forwards every rendered frame to r.
func WithRenderer(r animation.Renderer) Option {
	return func(c *config) { c.renderer = r }
}

// WithRecorder records every rendered frame with r.
func WithRecorder(r animation.FrameRecorder) Option {
	return func(c *config) { c.recorder = r }
}

// WithMetrics sets the session's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithLogger sets the session's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSessionID fixes the session id. Defaults to "harness-<script name>".
func WithSessionID(id string) Option {
	return func(c *config) { c.sessionID = id }
}

// countingRenderer counts frames and forwards them.
type countingRenderer struct {
	next   animation.Renderer
	frames int
}

func (r *countingRenderer) Render(ctx context.Context, f *projection.Frame) error {
	r.frames++
	if r.next == nil {
		return nil
	}
	return r.next.Render(ctx, f)
}

// runner drives one session on the calling goroutine.
type runner struct {
	session  *animation.Session
	sched    *testutil.ManualScheduler
	renderer *countingRenderer
}

// Run executes script against t and evaluates its assertions.
//
// A step the session rejects as an invalid selection is recorded in the
// trace and the script continues. Any other failure aborts the run.
func Run(ctx context.Context, t *dataset.Table, script *Script, opts ...Option) (*Result, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	cfg := config{
		logger:    slog.Default(),
		sessionID: "harness-" + script.Name,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &runner{
		sched:    testutil.NewManualScheduler(),
		renderer: &countingRenderer{next: cfg.renderer},
	}
	sessionOpts := []animation.Option{
		animation.WithScheduler(r.sched),
		animation.WithRenderer(r.renderer),
		animation.WithMetrics(cfg.metrics),
		animation.WithLogger(cfg.logger),
		animation.WithIDGenerator(testutil.NewFixedIDGenerator(cfg.sessionID)),
	}
	if cfg.recorder != nil {
		sessionOpts = append(sessionOpts, animation.WithRecorder(cfg.recorder))
	}
	session, err := animation.NewSession(t, sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	r.session = session
	defer session.Player().Stop()

	result := NewResult()
	if err := session.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to draw initial frame: %w", err)
	}
	result.Trace = append(result.Trace, r.trace(0, "refresh"))

	for i, step := range script.Steps {
		ev, err := r.execute(ctx, i+1, step)
		if err != nil {
			return nil, err
		}
		result.Trace = append(result.Trace, ev)
	}

	result.Frames = r.renderer.frames
	for _, msg := range r.evaluate(script.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (r *runner) execute(ctx context.Context, n int, step Step) (TraceEvent, error) {
	if ev, ok := step.Event(); ok {
		err := r.session.Apply(ctx, ev)
		trace := r.trace(n, step.String())
		if err != nil {
			var se *projection.SelectionError
			if !errors.As(err, &se) {
				return TraceEvent{}, fmt.Errorf("step %d %s: %w", n, step, err)
			}
			trace.Error = err.Error()
		}
		return trace, nil
	}

	fired := 0
	for i := 0; i < step.Tick; i++ {
		fired += r.sched.Fire()
		if _, err := r.session.RunPending(ctx); err != nil {
			return TraceEvent{}, fmt.Errorf("step %d %s: %w", n, step, err)
		}
	}
	trace := r.trace(n, step.String())
	trace.Fired = fired
	return trace, nil
}

func (r *runner) trace(n int, event string) TraceEvent {
	ev := TraceEvent{
		Step:  n,
		Event: event,
		Mode:  r.session.Mode().String(),
	}
	snap, ok := r.session.Snapshot()
	if !ok {
		return ev
	}
	sel := snap.Frame.Selection
	ev.Seq = snap.Seq
	ev.Year = sel.Year
	ev.Country = sel.Country
	ev.Category = sel.Category
	ev.Points = snap.Frame.PointCount()
	ev.Overlay = snap.Frame.OverlayCount()
	return ev
}
