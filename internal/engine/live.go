package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"leadlag/internal/core"
	"leadlag/internal/forecast"
	"leadlag/internal/strategy"
	"leadlag/internal/telemetry"
)

// Config wires one live engine.
type Config struct {
	Leader        string
	Follower      string
	Threshold     float64
	AlertCooldown time.Duration // minimum gap between webhook alerts
}

// Engine routes live ticks into the pair strategy and fans signal
// transitions out to telemetry. It polls CheckSignals on every
// follower tick (the strategy itself is pull-based) and only reports
// changes, so a persistent imbalance does not spam alerts.
type Engine struct {
	cfg      Config
	strat    *strategy.PairStrategy
	roles    map[string]strategy.Role
	filter   *forecast.Filter
	window   *forecast.Window
	hub      *telemetry.Hub
	notifier *telemetry.DiscordNotifier
	log      *zap.SugaredLogger

	lastSignal strategy.Signal
	lastAlert  time.Time

	// leader price kinematics for the forecast window
	lastLeaderPrice float64
	lastLeaderTime  int64
	lastVelocity    float64
}

// New builds an engine. hub, notifier and filter may each be nil to
// disable that output.
func New(cfg Config, hub *telemetry.Hub, notifier *telemetry.DiscordNotifier, filter *forecast.Filter, log *zap.SugaredLogger) *Engine {
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = 5 * time.Second
	}
	return &Engine{
		cfg:   cfg,
		strat: strategy.NewPairStrategy(cfg.Threshold),
		roles: map[string]strategy.Role{
			cfg.Leader:   strategy.Leader,
			cfg.Follower: strategy.Follower,
		},
		filter:   filter,
		window:   forecast.NewWindow(),
		hub:      hub,
		notifier: notifier,
		log:      log,
	}
}

// Run consumes the tick stream until the context is cancelled or the
// stream closes.
func (e *Engine) Run(ctx context.Context, ticks <-chan core.Tick) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tk, ok := <-ticks:
			if !ok {
				return nil
			}
			e.process(tk)
		}
	}
}

// LastSignal returns the most recent non-deduplicated evaluation
// outcome, for observability.
func (e *Engine) LastSignal() strategy.Signal { return e.lastSignal }

func (e *Engine) process(tk core.Tick) {
	role, ok := e.roles[tk.Symbol]
	if !ok {
		return // not part of the pair
	}

	if err := e.strat.OnMarketData(role, tk.Price, tk.Quantity, tk.IsBid()); err != nil {
		e.log.Debugw("tick_rejected", "symbol", tk.Symbol, "err", err)
		return
	}

	if role == strategy.Leader {
		e.pushFrame(tk)
		return
	}

	// follower tick: evaluate the current snapshot
	sig := e.strat.CheckSignals()
	sig = e.filter.Apply(sig, e.window)

	if sig == e.lastSignal {
		return
	}
	e.lastSignal = sig
	if sig != strategy.SignalNone {
		e.emit(sig, tk)
	}
}

// pushFrame updates the leader kinematics and appends one feature
// frame for the forecast filter.
func (e *Engine) pushFrame(tk core.Tick) {
	defer func() {
		e.lastLeaderPrice = tk.Price
		e.lastLeaderTime = tk.Timestamp
	}()

	if e.lastLeaderTime == 0 {
		return
	}
	dt := float64(tk.Timestamp-e.lastLeaderTime) / 1e6
	if dt <= 0 {
		return
	}

	velocity := (tk.Price - e.lastLeaderPrice) / dt
	accel := (velocity - e.lastVelocity) / dt
	e.lastVelocity = velocity

	followerOBI := 0.0
	if fb, err := e.strat.Book(strategy.Follower); err == nil {
		followerOBI = fb.Imbalance()
	}

	e.window.Push(forecast.Frame{
		LeaderOBI:   e.strat.LeaderImbalance(),
		FollowerOBI: followerOBI,
		Velocity:    velocity,
		Accel:       accel,
	})
}

func (e *Engine) emit(sig strategy.Signal, tk core.Tick) {
	obi := e.strat.LeaderImbalance()
	e.log.Infow("signal",
		"signal", sig.String(),
		"symbol", tk.Symbol,
		"price", tk.Price,
		"leader_obi", obi,
	)

	if e.hub != nil {
		event := telemetry.SignalEvent{
			Signal:    sig.String(),
			Symbol:    tk.Symbol,
			Price:     tk.Price,
			LeaderOBI: obi,
			Timestamp: tk.Timestamp,
		}
		if data, err := json.Marshal(event); err == nil {
			e.hub.Broadcast(data)
		}
	}

	if e.notifier != nil && time.Since(e.lastAlert) >= e.cfg.AlertCooldown {
		e.lastAlert = time.Now()
		color := telemetry.ColorBuy
		if sig == strategy.SignalSell {
			color = telemetry.ColorSell
		}
		title := fmt.Sprintf("%s %s", sig, tk.Symbol)
		msg := fmt.Sprintf("Price: $%.2f\nLeader OBI: %.4f\nThreshold: ±%g", tk.Price, obi, e.cfg.Threshold)
		go func() {
			if err := e.notifier.SendAlert(title, msg, color); err != nil {
				e.log.Warnw("discord_alert_failed", "err", err)
			}
		}()
	}
}
