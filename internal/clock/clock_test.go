package clock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequence_Next(t *testing.T) {
	s := NewSequence()

	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())
}

func TestSequence_NewSequenceAt(t *testing.T) {
	s := NewSequenceAt(41)

	assert.Equal(t, int64(41), s.Current())
	assert.Equal(t, int64(42), s.Next())
}

func TestSequence_Concurrent(t *testing.T) {
	s := NewSequence()
	const workers, perWorker = 8, 100

	var wg sync.WaitGroup
	seen := make([][]int64, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seen[w] = append(seen[w], s.Next())
			}
		}(w)
	}
	wg.Wait()

	unique := make(map[int64]bool)
	for _, vals := range seen {
		for _, v := range vals {
			assert.False(t, unique[v], "duplicate value %d", v)
			unique[v] = true
		}
	}
	assert.Len(t, unique, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), s.Current())
}

func TestTickerScheduler_FiresUntilStopped(t *testing.T) {
	var n atomic.Int32
	timer := TickerScheduler{}.Every(time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	timer.Stop()
	stopped := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, n.Load(), "no callbacks after Stop returns")
}

func TestTickerScheduler_StopIdempotent(t *testing.T) {
	timer := TickerScheduler{}.Every(time.Hour, func() {})

	assert.NotPanics(t, func() {
		timer.Stop()
		timer.Stop()
	})
}
