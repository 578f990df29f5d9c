package backtest

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"leadlag/internal/core"
)

const (
	btc = "BTC-USD"
	eth = "ETH-USD"
)

func tick(symbol string, ts int64, price, qty float64, side core.Direction) core.Tick {
	return core.Tick{Symbol: symbol, Timestamp: ts, Price: price, Quantity: qty, Side: side}
}

func newTestRunner(allowShort bool) *Runner {
	return NewRunner(Config{
		Threshold:      0.2,
		InitialCapital: 10000,
		UnitQty:        1,
		AllowShort:     allowShort,
	}, zap.NewNop().Sugar())
}

func TestRunLongOnly(t *testing.T) {
	ticks := []core.Tick{
		tick(btc, 1, 50000, 80, core.Buy),  // leader OBI -> 1.0
		tick(btc, 2, 50010, 20, core.Sell), // leader OBI -> 0.6
		tick(eth, 3, 2000, 1, core.Buy),    // BUY fires -> long entry @2000
		tick(btc, 4, 49990, 160, core.Sell), // leader OBI -> (80-180)/260
		tick(eth, 5, 2100, 1, core.Sell),   // SELL fires -> long close @2100
	}

	res, err := newTestRunner(false).Run(ticks, btc, eth)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Buys) != 1 || len(res.Sells) != 1 {
		t.Fatalf("expected 1 buy and 1 sell, got %d/%d", len(res.Buys), len(res.Sells))
	}
	if res.Buys[0].Action != "Long Entry" || res.Buys[0].Price != 2000 {
		t.Errorf("unexpected buy record: %+v", res.Buys[0])
	}
	if res.Sells[0].Action != "Long Close" || res.Sells[0].Price != 2100 {
		t.Errorf("unexpected sell record: %+v", res.Sells[0])
	}
	if len(res.Trades) != 2 {
		t.Errorf("expected 2 trades, got %d", len(res.Trades))
	}
	for _, tr := range res.Trades {
		if tr.ID == "" || tr.Symbol != eth {
			t.Errorf("trade record malformed: %+v", tr)
		}
	}

	if res.FinalPosition != 0 {
		t.Errorf("expected flat final position, got %v", res.FinalPosition)
	}
	if res.FinalCash != 10100 {
		t.Errorf("expected final cash 10100, got %v", res.FinalCash)
	}
	if res.FinalEquity != 10100 {
		t.Errorf("expected final equity 10100, got %v", res.FinalEquity)
	}
	if math.Abs(res.ROI-1.0) > 1e-9 {
		t.Errorf("expected ROI 1.0%%, got %v", res.ROI)
	}

	// history is sampled on follower ticks only
	if len(res.History) != 2 {
		t.Fatalf("expected 2 history points, got %d", len(res.History))
	}
	if res.History[0].Equity != 10000 {
		t.Errorf("first history point must be pre-trade equity, got %v", res.History[0].Equity)
	}
	if res.History[1].Equity != 10100 {
		t.Errorf("second history point equity, want 10100 got %v", res.History[1].Equity)
	}
	if res.History[0].LeaderOBI != 0.6 {
		t.Errorf("expected leader OBI 0.6 at first sample, got %v", res.History[0].LeaderOBI)
	}

	if res.Latency.Ticks != len(ticks) {
		t.Errorf("expected latency samples for %d ticks, got %d", len(ticks), res.Latency.Ticks)
	}
}

func TestRunShortAndReverse(t *testing.T) {
	ticks := []core.Tick{
		tick(btc, 1, 50000, 20, core.Buy),
		tick(btc, 2, 50000, 80, core.Sell), // leader OBI -> -0.6
		tick(eth, 3, 2000, 1, core.Buy),    // SELL fires -> short entry @2000
		tick(btc, 4, 50000, 160, core.Buy), // leader OBI -> (180-80)/260
		tick(eth, 5, 1900, 1, core.Sell),   // BUY fires -> cover & go long @1900
	}

	res, err := newTestRunner(true).Run(ticks, btc, eth)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Sells) != 1 || res.Sells[0].Action != "Short Entry" {
		t.Fatalf("expected short entry, got %+v", res.Sells)
	}
	if len(res.Buys) != 1 || res.Buys[0].Action != "Short Cover & Long Entry" {
		t.Fatalf("expected cover-and-reverse, got %+v", res.Buys)
	}
	if res.Buys[0].Qty != 2 {
		t.Errorf("reversal must trade 2 units, got %v", res.Buys[0].Qty)
	}

	if res.FinalPosition != 1 {
		t.Errorf("expected long 1 unit after reversal, got %v", res.FinalPosition)
	}
	// short @2000 (+2000), cover&long 2 @1900 (-3800), mark long @1900
	if res.FinalEquity != 10100 {
		t.Errorf("expected final equity 10100, got %v", res.FinalEquity)
	}
}

func TestRunFollowerBeforeLeaderPrice(t *testing.T) {
	ticks := []core.Tick{
		tick(eth, 1, 2000, 100, core.Buy), // no leader price yet
		tick(eth, 2, 2001, 100, core.Buy),
	}

	res, err := newTestRunner(false).Run(ticks, btc, eth)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.History) != 0 || res.TotalTrades() != 0 {
		t.Errorf("nothing may be recorded before the leader prints: %d history, %d trades",
			len(res.History), res.TotalTrades())
	}
}

func TestRunSkipsUnknownSymbolsAndBadTicks(t *testing.T) {
	ticks := []core.Tick{
		tick("DOGE-USD", 1, 0.1, 100, core.Buy),      // not part of the pair
		tick(btc, 2, 50000, math.NaN(), core.Buy),    // rejected at the boundary
		tick(btc, 3, 50000, 80, core.Buy),
		tick(btc, 4, 50000, 20, core.Sell),
		tick(eth, 5, 2000, 1, core.Buy),
	}

	res, err := newTestRunner(false).Run(ticks, btc, eth)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Buys) != 1 {
		t.Fatalf("expected the clean ticks to still produce a buy, got %d", len(res.Buys))
	}
	if res.History[0].LeaderOBI != 0.6 {
		t.Errorf("NaN tick must not contribute volume, OBI %v", res.History[0].LeaderOBI)
	}
}

func TestRunValidatesSymbols(t *testing.T) {
	r := newTestRunner(false)
	if _, err := r.Run(nil, "", eth); err == nil {
		t.Error("expected error for empty leader")
	}
	if _, err := r.Run(nil, btc, btc); err == nil {
		t.Error("expected error for identical symbols")
	}
}

func TestPortfolioEquityShort(t *testing.T) {
	pf := NewPortfolio(10000)
	pf.Execute(core.Sell, eth, 2000, 1, 1, "Short Entry")

	if pf.Cash != 12000 || pf.Position != -1 {
		t.Fatalf("short not booked: cash=%v pos=%v", pf.Cash, pf.Position)
	}
	// marking the short at a lower price gains equity
	if got := pf.Equity(1900); got != 10100 {
		t.Errorf("expected equity 10100, got %v", got)
	}
}
