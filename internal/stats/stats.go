// Package stats keeps a rolling window of document analysis latencies.
package stats

import (
	"slices"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultWindow is used when a non-positive window is configured.
	DefaultWindow = time.Hour

	// maxSamples bounds memory under sustained load; the oldest sample is
	// dropped first.
	maxSamples = 4096
)

type sample struct {
	at time.Time
	d  time.Duration
}

// Snapshot is a point-in-time aggregate of latency samples.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks recent document analysis durations within a rolling window.
// It is safe for concurrent use.
type Latency struct {
	mu      sync.Mutex
	window  time.Duration
	samples []sample // ordered by at
	now     func() time.Time
}

// NewLatency returns a tracker that forgets samples older than window.
func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Latency{
		window:  window,
		samples: make([]sample, 0, 256),
		now:     time.Now,
	}
}

// Window reports the effective retention window.
func (l *Latency) Window() time.Duration { return l.window }

// Observe records the time elapsed since start.
func (l *Latency) Observe(start time.Time) {
	l.Record(l.now().Sub(start))
}

// Record adds one analysis duration. Negative durations are stored as zero.
func (l *Latency) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked(now)
	if len(l.samples) == maxSamples {
		l.samples = append(l.samples[:0], l.samples[1:]...)
	}
	l.samples = append(l.samples, sample{at: now, d: d})
}

// Snapshot aggregates the samples still inside the window. An empty window
// yields the zero Snapshot.
func (l *Latency) Snapshot() Snapshot {
	now := l.now()

	l.mu.Lock()
	l.expireLocked(now)
	durations := make([]time.Duration, len(l.samples))
	for i, s := range l.samples {
		durations[i] = s.d
	}
	l.mu.Unlock()

	if len(durations) == 0 {
		return Snapshot{}
	}
	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return Snapshot{
		Count: len(durations),
		MinMs: durations[0].Milliseconds(),
		MaxMs: durations[len(durations)-1].Milliseconds(),
		AvgMs: millis(sum) / float64(len(durations)),
		P50Ms: percentile(durations, 50),
		P95Ms: percentile(durations, 95),
		P99Ms: percentile(durations, 99),
	}
}

// expireLocked drops samples recorded before now-window. Samples are kept in
// arrival order, so the cut point is found by binary search.
func (l *Latency) expireLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	i := sort.Search(len(l.samples), func(i int) bool {
		return !l.samples[i].at.Before(cutoff)
	})
	if i > 0 {
		l.samples = append(l.samples[:0], l.samples[i:]...)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []time.Duration, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return millis(sorted[0])
	case pct >= 100:
		return millis(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return millis(sorted[lower])
	}
	lo, hi := millis(sorted[lower]), millis(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
