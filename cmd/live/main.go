package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"leadlag/internal/adapter"
	"leadlag/internal/config"
	"leadlag/internal/engine"
	"leadlag/internal/forecast"
	"leadlag/internal/telemetry"
)

func main() {
	cfg := config.LoadFromEnv("").Live

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// telemetry outputs
	hub := telemetry.NewHub()
	go hub.Run()
	go telemetry.StartServer(hub, cfg.TelemetryAddr, sugar)
	notifier := telemetry.NewDiscordNotifier(cfg.DiscordWebhook)

	// optional forecast filter
	var filter *forecast.Filter
	if cfg.ModelPath != "" {
		model, err := forecast.NewModel(cfg.ModelPath)
		if err != nil {
			sugar.Warnw("model_load_failed", "path", cfg.ModelPath, "err", err)
		} else {
			defer model.Close()
			filter = forecast.NewFilter(model, sugar)
			sugar.Infow("model_loaded", "path", cfg.ModelPath)
		}
	}

	feed := adapter.NewBinanceAdapter(sugar)
	if err := feed.Connect(ctx); err != nil {
		sugar.Fatalw("feed_connect_failed", "err", err)
	}
	defer feed.Close()
	if err := feed.Subscribe([]string{cfg.Leader, cfg.Follower}); err != nil {
		sugar.Fatalw("subscribe_failed", "err", err)
	}

	eng := engine.New(engine.Config{
		Leader:        cfg.Leader,
		Follower:      cfg.Follower,
		Threshold:     cfg.Threshold,
		AlertCooldown: cfg.AlertCooldown,
	}, hub, notifier, filter, sugar)

	sugar.Infow("engine_started",
		"leader", cfg.Leader,
		"follower", cfg.Follower,
		"threshold", cfg.Threshold,
	)

	if err := eng.Run(ctx, feed.Stream()); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("engine_stopped", "err", err)
	}
	sugar.Infow("shutdown_complete")
}
