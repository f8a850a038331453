package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_FireAndStop(t *testing.T) {
	s := NewManualScheduler()
	var a, b int

	ta := s.Every(500*time.Millisecond, func() { a++ })
	s.Every(time.Second, func() { b++ })

	assert.Equal(t, 2, s.Fire())
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)

	ta.Stop()
	ta.Stop()
	assert.Equal(t, 1, s.Cancelled())
	assert.Equal(t, 1, s.Active())

	s.FireN(3)
	assert.Equal(t, 1, a)
	assert.Equal(t, 4, b)
	assert.Equal(t, 2, s.Scheduled())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, s.Intervals())
}

func TestManualScheduler_CallbackMayStop(t *testing.T) {
	s := NewManualScheduler()
	var timer interface{ Stop() }
	timer = s.Every(time.Second, func() { timer.Stop() })

	require.NotPanics(t, func() { s.Fire() })
	assert.Equal(t, 0, s.Active())
}

func TestFixedIDGenerator(t *testing.T) {
	g := NewFixedIDGenerator("s-1", "s-2")

	assert.Equal(t, "s-1", g.Generate())
	assert.Equal(t, 1, g.Remaining())
	assert.Equal(t, "s-2", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestSources_ExpandsObservation(t *testing.T) {
	src := Sources(Observation{
		Location: "Chile", Sex: "Male", Year: 2005, Region: "America",
		Exposure: 0.5, Risk: map[string]float64{"smoking": 0.2},
	})

	assert.Len(t, src.Exposure, 11)
	require.Len(t, src.DirectCause, 1)
	assert.Equal(t, 0.2, src.DirectCause[0].Value)
	assert.Len(t, src.Measures, 2)
	assert.Equal(t, "America", src.Regions["Chile"])
}
