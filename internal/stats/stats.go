// Package stats keeps rolling-window latency figures for the parse, render
// and load operations.
package stats

import (
	"sort"
	"sync"
	"time"
)

// Op names a measured operation.
type Op string

const (
	Parse  Op = "parse"
	Render Op = "render"
	Load   Op = "load"
)

type sample struct {
	at     time.Time
	ms     float64
	failed bool
}

// Snapshot is a point-in-time aggregate of one operation's samples.
// Latency figures cover successful runs only.
type Snapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Recorder tracks recent operation latencies within a rolling window. It is
// shared by all sessions.
type Recorder struct {
	mu      sync.Mutex
	samples map[Op][]sample
	maxAge  time.Duration
	now     func() time.Time
}

func New(maxAge time.Duration) *Recorder {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Recorder{
		samples: make(map[Op][]sample),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Observe records one run of op. A non-nil err counts as a failure.
func (r *Recorder) Observe(op Op, d time.Duration, err error) {
	if d < 0 {
		d = 0
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(op, now)
	r.samples[op] = append(r.samples[op], sample{
		at:     now,
		ms:     float64(d) / float64(time.Millisecond),
		failed: err != nil,
	})
}

// Start begins timing op; call the returned func with the outcome.
func (r *Recorder) Start(op Op) func(err error) {
	start := r.now()
	return func(err error) {
		r.Observe(op, r.now().Sub(start), err)
	}
}

// Op returns the aggregate for a single operation.
func (r *Recorder) Op(op Op) Snapshot {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(op, now)
	return aggregate(r.samples[op])
}

// Snapshot returns aggregates for every operation seen in the window.
func (r *Recorder) Snapshot() map[Op]Snapshot {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Op]Snapshot, len(r.samples))
	for op := range r.samples {
		r.pruneLocked(op, now)
		out[op] = aggregate(r.samples[op])
	}
	return out
}

func aggregate(samples []sample) Snapshot {
	var snap Snapshot
	values := make([]float64, 0, len(samples))
	var sum float64
	for _, s := range samples {
		if s.failed {
			snap.Failures++
			continue
		}
		values = append(values, s.ms)
		sum += s.ms
	}
	if len(values) == 0 {
		return snap
	}
	sort.Float64s(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = sum / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (r *Recorder) pruneLocked(op Op, now time.Time) {
	cutoff := now.Add(-r.maxAge)
	kept := r.samples[op][:0]
	for _, s := range r.samples[op] {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	r.samples[op] = kept
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
