package adapter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"leadlag/internal/core"
)

// BinanceAdapter streams aggregated trades from the Binance futures
// websocket and normalizes them into core.Tick values. Only the
// aggTrade stream is consumed: the pair engine accumulates trade flow
// per side, it does not mirror the venue's depth.
type BinanceAdapter struct {
	*BaseWSClient
	log    *zap.SugaredLogger
	stream chan core.Tick
}

func NewBinanceAdapter(log *zap.SugaredLogger) *BinanceAdapter {
	url := "wss://fstream.binance.com/ws"
	return &BinanceAdapter{
		BaseWSClient: NewBaseWSClient("Binance", url, log),
		log:          log,
		stream:       make(chan core.Tick, 65536), // absorb ingress bursts
	}
}

// Subscribe requests the aggTrade stream for each symbol.
func (b *BinanceAdapter) Subscribe(symbols []string) error {
	params := make([]string, 0, len(symbols))
	for _, s := range symbols {
		params = append(params, strings.ToLower(s)+"@aggTrade")
	}

	payload := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     time.Now().Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.SendChan <- data
	return nil
}

// Stream starts the parse loop and returns the normalized tick
// channel. Ticks are dropped rather than blocking the read pump when
// the consumer falls behind.
func (b *BinanceAdapter) Stream() <-chan core.Tick {
	go func() {
		defer close(b.stream)
		for raw := range b.ReadChan {
			tk, ok, err := parseAggTrade(raw)
			if err != nil {
				b.log.Debugw("binance_parse_error", "err", err)
				continue
			}
			if !ok {
				continue // subscription ack or other event type
			}
			select {
			case b.stream <- tk:
			default:
			}
		}
	}()
	return b.stream
}

type binanceAggTrade struct {
	E interface{} `json:"E"` // event time, ms (mixed types on some streams)
	S string      `json:"s"` // symbol
	P string      `json:"p"` // price
	Q string      `json:"q"` // quantity
	M bool        `json:"m"` // is buyer the maker?
}

func parseAggTrade(raw []byte) (core.Tick, bool, error) {
	var quick struct {
		Event     string      `json:"e"`
		EventTime interface{} `json:"E"` // capture E so it cannot match 'e'
	}
	if err := json.Unmarshal(raw, &quick); err != nil {
		s := string(raw)
		if len(s) > 100 {
			s = s[:100] + "..."
		}
		return core.Tick{}, false, &parseError{raw: s, err: err}
	}
	if quick.Event != "aggTrade" {
		return core.Tick{}, false, nil
	}

	var t binanceAggTrade
	if err := json.Unmarshal(raw, &t); err != nil {
		return core.Tick{}, false, err
	}

	price, err := strconv.ParseFloat(t.P, 64)
	if err != nil {
		return core.Tick{}, false, err
	}
	qty, err := strconv.ParseFloat(t.Q, 64)
	if err != nil {
		return core.Tick{}, false, err
	}

	// buyer-is-maker means the aggressor sold
	side := core.Buy
	if t.M {
		side = core.Sell
	}

	return core.Tick{
		Symbol:    t.S,
		Price:     price,
		Quantity:  qty,
		Side:      side,
		Timestamp: toInt64(t.E) * 1000, // ms -> µs
	}, true, nil
}

type parseError struct {
	raw string
	err error
}

func (p *parseError) Error() string { return p.err.Error() + " | raw: " + p.raw }
func (p *parseError) Unwrap() error { return p.err }

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case string:
		i, _ := strconv.ParseInt(val, 10, 64)
		return i
	case int64:
		return val
	default:
		return 0
	}
}
