package backtest

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarizeLatency(t *testing.T) {
	// 1µs..4µs
	stats := summarizeLatency([]int64{3000, 1000, 4000, 2000})

	if stats.Ticks != 4 {
		t.Fatalf("expected 4 samples, got %d", stats.Ticks)
	}
	if !almostEqual(stats.Mean, 2.5) {
		t.Errorf("mean: want 2.5, got %v", stats.Mean)
	}
	if !almostEqual(stats.Median, 2.5) {
		t.Errorf("median: want 2.5, got %v", stats.Median)
	}
	if stats.Min != 1 || stats.Max != 4 {
		t.Errorf("min/max: want 1/4, got %v/%v", stats.Min, stats.Max)
	}
	// interpolated ranks over n-1 intervals
	if !almostEqual(stats.P95, 3.85) {
		t.Errorf("p95: want 3.85, got %v", stats.P95)
	}
	if !almostEqual(stats.P99, 3.97) {
		t.Errorf("p99: want 3.97, got %v", stats.P99)
	}
}

func TestSummarizeLatencyEmpty(t *testing.T) {
	stats := summarizeLatency(nil)
	if stats.Ticks != 0 || stats.Mean != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestSummarizeLatencySingle(t *testing.T) {
	stats := summarizeLatency([]int64{5000})
	if stats.Median != 5 || stats.P99 != 5 || stats.Mean != 5 {
		t.Errorf("single-sample stats wrong: %+v", stats)
	}
}
