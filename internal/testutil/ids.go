package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined session ids for testing.
//
// Tests provide a known sequence of ids so that stored sessions and golden
// traces are stable across runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed. A test that creates more sessions
// than it declared is misconfigured.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedIDGenerator: all %d ids exhausted", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Remaining returns the number of ids not yet handed out.
func (g *FixedIDGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}
