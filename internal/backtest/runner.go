package backtest

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"leadlag/internal/core"
	"leadlag/internal/strategy"
)

// Runner replays historical ticks through a PairStrategy and simulates
// follower-side execution. Each run builds a fresh strategy so state
// never leaks between runs.
type Runner struct {
	cfg  Config
	log  *zap.SugaredLogger
	sink HistorySink // optional, receives history points as they are produced
}

func NewRunner(cfg Config, log *zap.SugaredLogger) *Runner {
	// defaults
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.2
	}
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 10000
	}
	if cfg.UnitQty <= 0 {
		cfg.UnitQty = 1.0
	}
	return &Runner{cfg: cfg, log: log}
}

// SetSink attaches an optional streaming consumer for history points
// (e.g. a CSV Recorder). Must be called before Run.
func (r *Runner) SetSink(sink HistorySink) { r.sink = sink }

// Run feeds ticks in order into the engine and simulates trading the
// follower on the leader's imbalance signals. Ticks must already be
// sorted by timestamp ascending; ticks for unknown symbols are skipped.
func (r *Runner) Run(ticks []core.Tick, leader, follower string) (Result, error) {
	if leader == "" || follower == "" {
		return Result{}, errors.New("backtest: leader and follower symbols are required")
	}
	if leader == follower {
		return Result{}, fmt.Errorf("backtest: leader and follower must differ, both are %q", leader)
	}

	strat := strategy.NewPairStrategy(r.cfg.Threshold)
	pf := NewPortfolio(r.cfg.InitialCapital)

	res := Result{
		Leader:   leader,
		Follower: follower,
		History:  make([]HistoryPoint, 0, len(ticks)),
	}

	var (
		lastLeaderPrice float64
		lastFollowPrice float64
		skipped         int
		tickNanos       = make([]int64, 0, len(ticks))
	)

	for _, tk := range ticks {
		start := time.Now()

		var role strategy.Role
		switch tk.Symbol {
		case leader:
			role = strategy.Leader
			lastLeaderPrice = tk.Price
		case follower:
			role = strategy.Follower
		default:
			skipped++
			continue
		}

		if err := strat.OnMarketData(role, tk.Price, tk.Quantity, tk.IsBid()); err != nil {
			r.log.Debugw("tick_rejected", "symbol", tk.Symbol, "err", err)
			skipped++
			continue
		}

		// Record state and trade only on follower ticks, once the
		// leader has printed a price (the two series are otherwise
		// unsynchronized).
		if role == strategy.Follower && lastLeaderPrice > 0 {
			lastFollowPrice = tk.Price
			obi := strat.LeaderImbalance()

			point := HistoryPoint{
				Timestamp:     tk.Timestamp,
				LeaderOBI:     obi,
				LeaderPrice:   lastLeaderPrice,
				FollowerPrice: tk.Price,
				Equity:        pf.Equity(tk.Price),
			}
			res.History = append(res.History, point)
			if r.sink != nil {
				r.sink.Record(point)
			}

			r.apply(strat.CheckSignals(), pf, &res, tk, obi)
		}

		tickNanos = append(tickNanos, time.Since(start).Nanoseconds())
	}

	if skipped > 0 {
		r.log.Infow("ticks_skipped", "count", skipped)
	}

	res.FinalPosition = pf.Position
	res.FinalCash = pf.Cash
	res.FinalEquity = pf.Equity(lastFollowPrice)
	res.ROI = (res.FinalEquity - r.cfg.InitialCapital) / r.cfg.InitialCapital * 100
	res.FinalLeaderOBI = strat.LeaderImbalance()
	res.Trades = pf.Trades
	res.Latency = summarizeLatency(tickNanos)
	return res, nil
}

// apply turns a signal into at most one portfolio action, using the
// long-only rules by default or the reversal rules when shorting is
// allowed.
func (r *Runner) apply(sig strategy.Signal, pf *Portfolio, res *Result, tk core.Tick, obi float64) {
	unit := r.cfg.UnitQty

	if r.cfg.AllowShort {
		switch {
		case sig == strategy.SignalBuy && pf.Position == 0:
			pf.Execute(core.Buy, tk.Symbol, tk.Price, unit, tk.Timestamp, "Long Entry")
			res.Buys = append(res.Buys, SignalRecord{tk.Timestamp, tk.Price, obi, "Long Entry", unit})
		case sig == strategy.SignalBuy && pf.Position < 0:
			// cover the short and flip long in one fill
			pf.Execute(core.Buy, tk.Symbol, tk.Price, 2*unit, tk.Timestamp, "Short Cover & Long Entry")
			res.Buys = append(res.Buys, SignalRecord{tk.Timestamp, tk.Price, obi, "Short Cover & Long Entry", 2 * unit})
		case sig == strategy.SignalSell && pf.Position == 0:
			pf.Execute(core.Sell, tk.Symbol, tk.Price, unit, tk.Timestamp, "Short Entry")
			res.Sells = append(res.Sells, SignalRecord{tk.Timestamp, tk.Price, obi, "Short Entry", unit})
		case sig == strategy.SignalSell && pf.Position > 0:
			pf.Execute(core.Sell, tk.Symbol, tk.Price, 2*unit, tk.Timestamp, "Long Close & Short Entry")
			res.Sells = append(res.Sells, SignalRecord{tk.Timestamp, tk.Price, obi, "Long Close & Short Entry", 2 * unit})
		}
		return
	}

	switch {
	case sig == strategy.SignalBuy && pf.Position == 0:
		pf.Execute(core.Buy, tk.Symbol, tk.Price, unit, tk.Timestamp, "Long Entry")
		res.Buys = append(res.Buys, SignalRecord{tk.Timestamp, tk.Price, obi, "Long Entry", unit})
	case sig == strategy.SignalSell && pf.Position > 0:
		qty := pf.Position
		pf.Execute(core.Sell, tk.Symbol, tk.Price, qty, tk.Timestamp, "Long Close")
		res.Sells = append(res.Sells, SignalRecord{tk.Timestamp, tk.Price, obi, "Long Close", qty})
	}
}
