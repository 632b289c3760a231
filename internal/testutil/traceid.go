// Package testutil provides deterministic helpers for CLI and harness tests.
package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceIDGenerator returns the same trace ID every time.
//
// Thread-safety: FixedTraceIDGenerator is stateless and safe for concurrent use.
type FixedTraceIDGenerator struct {
	id string
}

// NewFixedTraceIDGenerator creates a fixed generator.
// If id is empty, Generate() returns "test-trace-default".
func NewFixedTraceIDGenerator(id string) *FixedTraceIDGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceIDGenerator{id: id}
}

// Generate returns the fixed trace ID.
func (g *FixedTraceIDGenerator) Generate() string {
	return g.id
}

// SequenceTraceIDGenerator returns "test-trace-0001", "test-trace-0002", ...
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequenceTraceIDGenerator struct {
	mu  sync.Mutex
	seq int
}

// NewSequenceTraceIDGenerator creates a generator whose first ID ends in 0001.
func NewSequenceTraceIDGenerator() *SequenceTraceIDGenerator {
	return &SequenceTraceIDGenerator{}
}

// Generate returns the next ID in the sequence.
func (g *SequenceTraceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("test-trace-%04d", g.seq)
}

// Reset restarts the sequence. The next call to Generate() returns 0001.
func (g *SequenceTraceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
