package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Latency, at *time.Time) {
	l.now = func() time.Time { return *at }
}

func TestLatencySnapshotPercentiles(t *testing.T) {
	l := NewLatency(time.Hour)
	for _, ms := range []int{500, 100, 300, 200, 400} {
		l.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := l.Snapshot()
	require.Equal(t, 5, snap.Count)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.InDelta(t, 300, snap.AvgMs, 1e-9)
	assert.InDelta(t, 300, snap.P50Ms, 1e-9)
	assert.InDelta(t, 480, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496, snap.P99Ms, 1e-9)
}

func TestLatencySubMillisecondPrecision(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record(1500 * time.Microsecond)
	l.Record(2500 * time.Microsecond)

	snap := l.Snapshot()
	assert.Equal(t, int64(1), snap.MinMs)
	assert.Equal(t, int64(2), snap.MaxMs)
	assert.InDelta(t, 2.0, snap.AvgMs, 1e-9)
}

func TestLatencyExpiresOldSamples(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatency(time.Minute)
	fixedClock(l, &clock)

	l.Record(100 * time.Millisecond)
	clock = clock.Add(30 * time.Second)
	l.Record(300 * time.Millisecond)
	clock = clock.Add(45 * time.Second)

	snap := l.Snapshot()
	require.Equal(t, 1, snap.Count, "first sample is past the window")
	assert.Equal(t, int64(300), snap.MinMs)

	clock = clock.Add(time.Hour)
	assert.Equal(t, Snapshot{}, l.Snapshot())
}

func TestLatencyObserve(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLatency(time.Hour)
	fixedClock(l, &clock)

	start := clock
	clock = clock.Add(250 * time.Millisecond)
	l.Observe(start)

	assert.Equal(t, int64(250), l.Snapshot().MaxMs)
}

func TestLatencyRecordClampsNegativeDuration(t *testing.T) {
	l := NewLatency(time.Hour)
	l.Record(-10 * time.Millisecond)

	snap := l.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(0), snap.MinMs)
}

func TestLatencyDropsOldestBeyondCapacity(t *testing.T) {
	l := NewLatency(time.Hour)
	for i := 0; i <= maxSamples; i++ {
		l.Record(time.Duration(i) * time.Millisecond)
	}

	snap := l.Snapshot()
	assert.Equal(t, maxSamples, snap.Count)
	assert.Equal(t, int64(1), snap.MinMs)
	assert.Equal(t, int64(maxSamples), snap.MaxMs)
}

func TestNewLatencyDefaultsWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, NewLatency(0).Window())
	assert.Equal(t, time.Minute, NewLatency(time.Minute).Window())
}
