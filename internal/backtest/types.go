package backtest

import "leadlag/internal/core"

// Config tunes one backtest run.
type Config struct {
	Threshold      float64 // leader OBI entry threshold
	InitialCapital float64
	UnitQty        float64 // follower quantity traded per signal
	AllowShort     bool    // enable short entries and position reversal
}

// Trade is one simulated execution on the follower instrument.
type Trade struct {
	ID        string
	Timestamp int64 // Unix Microseconds
	Symbol    string
	Side      core.Direction
	Price     float64
	Qty       float64
	Action    string // e.g. "Long Entry", "Short Cover & Long Entry"
}

// SignalRecord marks where a signal fired, for plotting against the
// follower price series.
type SignalRecord struct {
	Timestamp int64
	Price     float64
	Imbalance float64 // leader OBI at the moment the signal fired
	Action    string
	Qty       float64
}

// HistoryPoint is one sample of the replay state, recorded whenever a
// follower tick arrives with a known leader price.
type HistoryPoint struct {
	Timestamp     int64
	LeaderOBI     float64
	LeaderPrice   float64
	FollowerPrice float64
	Equity        float64
}

// HistorySink receives history points as the replay produces them.
type HistorySink interface {
	Record(HistoryPoint)
}

// LatencyStats summarizes per-tick processing latency in microseconds.
type LatencyStats struct {
	Ticks  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	P95    float64
	P99    float64
}

// Result collects everything a run produced.
type Result struct {
	Leader   string
	Follower string

	History []HistoryPoint
	Buys    []SignalRecord
	Sells   []SignalRecord
	Trades  []Trade

	FinalPosition  float64
	FinalCash      float64
	FinalEquity    float64
	ROI            float64 // percent
	FinalLeaderOBI float64

	Latency LatencyStats
}

// TotalTrades is the number of executions across both sides.
func (r Result) TotalTrades() int {
	return len(r.Buys) + len(r.Sells)
}
