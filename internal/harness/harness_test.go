package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/metrics"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/testutil"
)

// fixtureTable has Japan for 1990-1992 and Chile (male only) for 1991.
func fixtureTable(t testing.TB) *dataset.Table {
	t.Helper()
	var obs []testutil.Observation
	for _, year := range []int{1990, 1991, 1992} {
		obs = append(obs,
			testutil.Observation{Location: "Japan", Sex: "Male", Year: year, Region: "East Asia & Pacific", Exposure: 0.1, Prevalence: 0.002, Incidence: 0.0003},
			testutil.Observation{Location: "Japan", Sex: "Female", Year: year, Region: "East Asia & Pacific", Exposure: 0.2, Prevalence: 0.003, Incidence: 0.0004},
		)
	}
	obs = append(obs, testutil.Observation{Location: "Chile", Sex: "Male", Year: 1991, Region: "America", Exposure: 0.3, Prevalence: 0.001, Incidence: 0.0002})
	return testutil.Table(t, obs...)
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func run(t *testing.T, s *Script, opts ...Option) *Result {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)
	result, err := Run(context.Background(), fixtureTable(t), s, opts...)
	require.NoError(t, err)
	return result
}

func TestRun_InitialFrame(t *testing.T) {
	result := run(t, &Script{Name: "empty"})

	assert.True(t, result.Pass)
	assert.Equal(t, 1, result.Frames)
	require.Len(t, result.Trace, 1)

	ev := result.Trace[0]
	assert.Equal(t, "refresh", ev.Event)
	assert.Equal(t, int64(1), ev.Seq)
	assert.Equal(t, "idle", ev.Mode)
	assert.Equal(t, 1990, ev.Year)
	assert.Equal(t, projection.NoCountry, ev.Country)
	assert.Equal(t, 2, ev.Points)
	assert.Equal(t, 0, ev.Overlay)
}

func TestRun_TickWhilePlayingAdvances(t *testing.T) {
	result := run(t, &Script{
		Name: "ticks",
		Steps: []Step{
			{Toggle: true},
			{Tick: 3},
		},
		Assertions: []Assertion{
			{Type: AssertYear, Year: 1990},
			{Type: AssertMode, Mode: "playing"},
			{Type: AssertActiveTimers, Count: 1},
			{Type: AssertFrames, Count: 4},
		},
	})

	assert.True(t, result.Pass, result.Errors)
	last := result.Trace[len(result.Trace)-1]
	assert.Equal(t, 3, last.Fired)
	assert.Equal(t, int64(4), last.Seq)
}

func TestRun_TickWhileIdleDoesNothing(t *testing.T) {
	result := run(t, &Script{
		Name:  "idle",
		Steps: []Step{{Tick: 5}},
		Assertions: []Assertion{
			{Type: AssertYear, Year: 1990},
			{Type: AssertFrames, Count: 1},
			{Type: AssertActiveTimers, Count: 0},
		},
	})

	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, 0, result.Trace[1].Fired)
}

func TestRun_RejectedStepIsTraced(t *testing.T) {
	result := run(t, &Script{
		Name: "rejected",
		Steps: []Step{
			{SetYear: intp(2020)},
			{SelectCategory: strp("Smoking")},
		},
		Assertions: []Assertion{
			{Type: AssertYear, Year: 1990},
			{Type: AssertCategory, Category: "Smoking"},
		},
	})

	assert.True(t, result.Pass, result.Errors)
	assert.Contains(t, result.Trace[1].Error, "invalid selection: year")
	assert.Equal(t, int64(1), result.Trace[1].Seq)
	assert.Empty(t, result.Trace[2].Error)
	assert.Equal(t, int64(2), result.Trace[2].Seq)
}

func TestRun_FailedAssertions(t *testing.T) {
	result := run(t, &Script{
		Name:  "failing",
		Steps: []Step{{SelectCountry: strp("Chile")}},
		Assertions: []Assertion{
			{Type: AssertCountry, Country: "Japan"},
			{Type: AssertOverlayCount, Count: 0},
			{Type: AssertGroupCount, Count: 2},
		},
	})

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"assertion 1: country: want Japan, got Chile",
	}, result.Errors)
}

func TestRun_ForwardsFrames(t *testing.T) {
	renderer := &countingRenderer{}
	result := run(t, &Script{
		Name:  "forward",
		Steps: []Step{{SetYear: intp(1991)}, {SetYear: intp(1992)}},
	}, WithRenderer(renderer))

	assert.Equal(t, 3, renderer.frames)
	assert.Equal(t, 3, result.Frames)
}

type failingRenderer struct{}

var errDiskFull = errors.New("disk full")

func (failingRenderer) Render(context.Context, *projection.Frame) error { return errDiskFull }

func TestRun_RendererFailureAborts(t *testing.T) {
	_, err := Run(context.Background(), fixtureTable(t), &Script{Name: "broken"},
		WithRenderer(failingRenderer{}),
		WithLogger(testutil.DiscardLogger()),
	)
	require.ErrorIs(t, err, errDiskFull)
}

func TestRun_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	run(t, &Script{
		Name:  "metrics",
		Steps: []Step{{Toggle: true}, {Tick: 2}, {Toggle: true}},
	}, WithMetrics(m))

	assert.Equal(t, 2.0, promtest.ToFloat64(m.Ticks.WithLabelValues("applied")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.PlaybackToggles.WithLabelValues("playing")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.PlaybackToggles.WithLabelValues("idle")))
}

func TestRun_InvalidScript(t *testing.T) {
	_, err := Run(context.Background(), fixtureTable(t), &Script{Name: ""})
	require.Error(t, err)
}

func TestPlaybackScript_Golden(t *testing.T) {
	script, err := LoadScript("testdata/scripts/playback.yaml")
	require.NoError(t, err)

	result := run(t, script)
	assert.True(t, result.Pass, result.Errors)
	require.NoError(t, AssertGolden(t, script.Name, result))
}
