package profile

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("gemini", OutcomeOK, 100)
	stats.Record("gemini", OutcomeOK, 200)
	stats.Record("gemini", OutcomeOK, 300)
	stats.Record("gemini", OutcomeOK, 400)
	stats.Record("gemini", OutcomeOK, 500)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsOutcomesExcludedFromLatency(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("claude", OutcomeOK, 200)
	stats.Record("claude", OutcomeError, 9000)
	stats.Record("gemini", OutcomeCached, 0)

	snap := stats.Snapshot()
	if snap.Count != 3 {
		t.Fatalf("expected count=3, got %d", snap.Count)
	}
	if snap.Errors != 1 || snap.CacheHits != 1 {
		t.Fatalf("expected errors=1 cache_hits=1, got %d %d", snap.Errors, snap.CacheHits)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected latency from ok call only, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.ByProvider["claude"] != 2 || snap.ByProvider["gemini"] != 1 {
		t.Fatalf("unexpected by_provider %v", snap.ByProvider)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record("gemini", OutcomeOK, 100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record("gemini", OutcomeOK, 200)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("gemini", OutcomeOK, -10)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
