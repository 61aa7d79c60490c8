package engine

import (
	"sync"
	"time"

	"github.com/go-drift/uisync/pkg/paint"
)

const (
	cycleTraceSamplesDefault   = 240
	defaultCycleTraceThreshold = 50 * time.Millisecond
)

// CycleSample describes one render cycle.
type CycleSample struct {
	Timestamp int64   `json:"ts"`
	Session   string  `json:"session"`
	Cycle     uint64  `json:"cycle"`
	RenderMs  float64 `json:"renderMs"`
	Dirty     int     `json:"dirty"`
	Fresh     int     `json:"fresh"`
	Cached    int     `json:"cached"`
	Deferred  int     `json:"deferred"`
	Invisible int     `json:"invisible"`
	Calls     int     `json:"calls"`
}

// CycleTimeline is the debug server response shape.
type CycleTimeline struct {
	Samples     []CycleSample `json:"samples"`
	SlowCycles  int           `json:"slowCycles"`
	ThresholdMs float64       `json:"thresholdMs"`
}

// CycleTraceBuffer stores recent cycle samples of all sessions in a ring
// buffer. It is safe for concurrent use.
type CycleTraceBuffer struct {
	mu        sync.RWMutex
	samples   []CycleSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewCycleTraceBuffer creates a buffer. Non-positive arguments select the
// defaults.
func NewCycleTraceBuffer(capacity int, threshold time.Duration) *CycleTraceBuffer {
	if capacity <= 0 {
		capacity = cycleTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultCycleTraceThreshold
	}
	return &CycleTraceBuffer{
		samples:   make([]CycleSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *CycleTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Add records a sample and counts it as slow when it took longer than the
// threshold.
func (b *CycleTraceBuffer) Add(sample CycleSample, elapsed time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if elapsed > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns the samples in chronological order.
func (b *CycleTraceBuffer) Snapshot() CycleTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return CycleTimeline{Samples: []CycleSample{}, ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]CycleSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return CycleTimeline{
		Samples:     result,
		SlowCycles:  b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func countPayloads(payloads []*paint.Payload, sample *CycleSample) {
	for _, p := range payloads {
		switch {
		case p.Status() == paint.StatusDeferred:
			sample.Deferred++
		case p.Status() == paint.StatusCached && p.Attributes.Has(paint.AttrCached):
			sample.Cached++
		case p.Attributes.Has(paint.AttrInvisible):
			sample.Invisible++
		default:
			sample.Fresh++
		}
		sample.Calls += len(p.Calls)
		countPayloads(p.Children, sample)
	}
}
