package profile

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies a finished generation call.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeError  Outcome = "error"
	OutcomeCached Outcome = "cached"
)

type sample struct {
	timestamp  time.Time
	provider   string
	outcome    Outcome
	durationMs int64
}

// StatsSnapshot aggregates the generation calls still inside the window.
// Latency figures cover successful provider calls only.
type StatsSnapshot struct {
	Count      int            `json:"count"`
	Errors     int            `json:"errors"`
	CacheHits  int            `json:"cache_hits"`
	ByProvider map[string]int `json:"by_provider,omitempty"`
	MinMs      int64          `json:"min_ms"`
	MaxMs      int64          `json:"max_ms"`
	AvgMs      float64        `json:"avg_ms"`
	P50Ms      float64        `json:"p50_ms"`
	P95Ms      float64        `json:"p95_ms"`
	P99Ms      float64        `json:"p99_ms"`
}

// Stats tracks recent generation calls within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

func (s *Stats) Record(provider string, outcome Outcome, durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		provider:   provider,
		outcome:    outcome,
		durationMs: durationMs,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{
		Count:      len(s.samples),
		ByProvider: make(map[string]int),
	}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		snap.ByProvider[sm.provider]++
		switch sm.outcome {
		case OutcomeError:
			snap.Errors++
		case OutcomeCached:
			snap.CacheHits++
		default:
			values = append(values, sm.durationMs)
			sum += sm.durationMs
		}
	}
	if len(values) == 0 {
		return snap
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
