package forecast

import (
	"go.uber.org/zap"

	"leadlag/internal/strategy"
)

// Filter vetoes threshold signals that disagree with the model's
// median predicted return: a Buy with a negative median forecast (or a
// Sell with a positive one) is downgraded to SignalNone. A nil Filter,
// a missing model or a short window all pass the signal through
// untouched.
type Filter struct {
	model *Model
	log   *zap.SugaredLogger
}

func NewFilter(model *Model, log *zap.SugaredLogger) *Filter {
	return &Filter{model: model, log: log}
}

func (f *Filter) Apply(sig strategy.Signal, w *Window) strategy.Signal {
	if f == nil || f.model == nil || sig == strategy.SignalNone || !w.Ready() {
		return sig
	}

	q, err := f.model.Predict(w.Flatten())
	if err != nil {
		f.log.Warnw("forecast_failed", "err", err)
		return sig
	}

	if sig == strategy.SignalBuy && q.Q50 < 0 {
		f.log.Infow("signal_vetoed", "signal", sig.String(), "q50", q.Q50)
		return strategy.SignalNone
	}
	if sig == strategy.SignalSell && q.Q50 > 0 {
		f.log.Infow("signal_vetoed", "signal", sig.String(), "q50", q.Q50)
		return strategy.SignalNone
	}
	return sig
}
