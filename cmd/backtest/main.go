package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"leadlag/internal/backtest"
	"leadlag/internal/config"
	"leadlag/internal/feed"
)

func main() {
	cfg := config.LoadFromEnv("").Backtest

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ticks, err := feed.LoadTicks(cfg.DataPath)
	if err != nil {
		sugar.Fatalw("load_ticks_failed", "path", cfg.DataPath, "err", err)
	}
	if len(ticks) == 0 {
		sugar.Fatalw("no_ticks", "path", cfg.DataPath)
	}
	sugar.Infow("ticks_loaded", "count", len(ticks), "path", cfg.DataPath)

	runner := backtest.NewRunner(backtest.Config{
		Threshold:      cfg.Threshold,
		InitialCapital: cfg.InitialCapital,
		UnitQty:        cfg.UnitQty,
		AllowShort:     cfg.AllowShort,
	}, sugar)

	if cfg.HistoryCSV != "" {
		rec, err := backtest.NewRecorder(cfg.HistoryCSV)
		if err != nil {
			sugar.Fatalw("recorder_failed", "path", cfg.HistoryCSV, "err", err)
		}
		defer rec.Close()
		runner.SetSink(rec)
	}

	res, err := runner.Run(ticks, cfg.Leader, cfg.Follower)
	if err != nil {
		sugar.Fatalw("backtest_failed", "err", err)
	}

	sugar.Infow("backtest_complete",
		"trades", res.TotalTrades(),
		"final_equity", res.FinalEquity,
		"roi_pct", res.ROI,
		"final_leader_obi", res.FinalLeaderOBI,
		"mean_tick_us", res.Latency.Mean,
		"p99_tick_us", res.Latency.P99,
	)
	fmt.Print(res.Summary(cfg.InitialCapital))

	if cfg.TradesCSV != "" {
		if err := backtest.WriteTradesCSV(res.Trades, cfg.TradesCSV); err != nil {
			sugar.Errorw("write_trades_failed", "path", cfg.TradesCSV, "err", err)
		} else {
			sugar.Infow("trades_written", "path", cfg.TradesCSV, "count", len(res.Trades))
		}
	}
}
