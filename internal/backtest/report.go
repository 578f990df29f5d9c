package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// WriteTradesCSV dumps the executed trades of a run to path.
func WriteTradesCSV(trades []Trade, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write([]string{"id", "timestamp", "symbol", "side", "price", "qty", "action"})
	for _, t := range trades {
		_ = w.Write([]string{
			t.ID,
			time.UnixMicro(t.Timestamp).UTC().Format(time.RFC3339Nano),
			t.Symbol,
			t.Side.String(),
			formatF(t.Price),
			formatF(t.Qty),
			t.Action,
		})
	}
	return nil
}

// Summary renders the result the way a console report reads: capital,
// equity, ROI, trade count and the tick-latency profile.
func (r Result) Summary(initialCapital float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- BACKTEST RESULTS ---\n")
	fmt.Fprintf(&b, "Pair:                  %s -> %s\n", r.Leader, r.Follower)
	fmt.Fprintf(&b, "Total Trades Executed: %d\n", r.TotalTrades())
	fmt.Fprintf(&b, "Final Position:        %g units of %s\n", r.FinalPosition, r.Follower)
	fmt.Fprintf(&b, "Initial Capital:       $%.2f\n", initialCapital)
	fmt.Fprintf(&b, "Final Equity:          $%.2f\n", r.FinalEquity)
	fmt.Fprintf(&b, "Return on Investment:  %.4f%%\n", r.ROI)
	fmt.Fprintf(&b, "Final Leader OBI:      %.4f\n", r.FinalLeaderOBI)
	if r.Latency.Ticks > 0 {
		fmt.Fprintf(&b, "--- TICK LATENCY (µs) ---\n")
		fmt.Fprintf(&b, "ticks=%d mean=%.2f median=%.2f min=%.2f max=%.2f p95=%.2f p99=%.2f\n",
			r.Latency.Ticks, r.Latency.Mean, r.Latency.Median,
			r.Latency.Min, r.Latency.Max, r.Latency.P95, r.Latency.P99)
	}
	return b.String()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
