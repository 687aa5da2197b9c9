package engine

import (
	"sync"
	"time"
)

const timingSamples = 120

// Stats summarizes the runtime's cascade activity.
type Stats struct {
	// Cascades is the total number of cascades run since Start.
	Cascades uint64 `json:"cascades"`
	// Samples holds the most recent cascade durations, oldest first.
	Samples []time.Duration `json:"samples"`
	// Average is the mean duration over Samples.
	Average time.Duration `json:"average"`
}

// Stats returns a copy of the current cascade statistics. Safe to call
// from any goroutine.
func (rt *Runtime) Stats() Stats {
	samples := rt.timings.snapshot()
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	var avg time.Duration
	if len(samples) > 0 {
		avg = total / time.Duration(len(samples))
	}
	return Stats{Cascades: rt.timings.total(), Samples: samples, Average: avg}
}

// timingBuffer is a ring of recent cascade durations. The runtime
// writes from its own thread; Stats and the debug server may read from
// others, so access is guarded.
type timingBuffer struct {
	mu      sync.RWMutex
	samples []time.Duration
	index   int
	count   int
	seen    uint64
}

func newTimingBuffer(capacity int) *timingBuffer {
	if capacity <= 0 {
		capacity = timingSamples
	}
	return &timingBuffer{samples: make([]time.Duration, capacity)}
}

func (b *timingBuffer) add(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples[b.index] = d
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	b.seen++
}

func (b *timingBuffer) total() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seen
}

// snapshot returns the samples in chronological order.
func (b *timingBuffer) snapshot() []time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}
	result := make([]time.Duration, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}
	return result
}
