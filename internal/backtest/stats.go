package backtest

import "sort"

// summarizeLatency converts per-tick nanosecond samples into
// microsecond summary statistics. Percentiles use linear interpolation
// between the two nearest ranks.
func summarizeLatency(nanos []int64) LatencyStats {
	if len(nanos) == 0 {
		return LatencyStats{}
	}

	us := make([]float64, len(nanos))
	var sum float64
	for i, n := range nanos {
		us[i] = float64(n) / 1000.0
		sum += us[i]
	}
	sort.Float64s(us)

	return LatencyStats{
		Ticks:  len(us),
		Mean:   sum / float64(len(us)),
		Median: percentile(us, 50),
		Min:    us[0],
		Max:    us[len(us)-1],
		P95:    percentile(us, 95),
		P99:    percentile(us, 99),
	}
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
