package backtest

import (
	"github.com/google/uuid"

	"leadlag/internal/core"
)

// Portfolio tracks simulated cash and the follower position during a
// replay. Positive Position is long, negative is short. There is no
// margin model: the runner decides when to trade, the portfolio only
// books it.
type Portfolio struct {
	Cash     float64
	Position float64
	Trades   []Trade
}

func NewPortfolio(initialCapital float64) *Portfolio {
	return &Portfolio{
		Cash:   initialCapital,
		Trades: make([]Trade, 0),
	}
}

// Execute books one fill: a Buy spends cash and grows the position, a
// Sell does the opposite. Works for shorts too, since covering a short
// is just a Buy against a negative position.
func (pf *Portfolio) Execute(side core.Direction, symbol string, price, qty float64, ts int64, action string) Trade {
	cost := price * qty
	if side == core.Buy {
		pf.Cash -= cost
		pf.Position += qty
	} else {
		pf.Cash += cost
		pf.Position -= qty
	}

	tr := Trade{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Action:    action,
	}
	pf.Trades = append(pf.Trades, tr)
	return tr
}

// Equity marks the portfolio to the given follower price.
// If Position is short, this subtracts the cost to cover.
func (pf *Portfolio) Equity(price float64) float64 {
	return pf.Cash + pf.Position*price
}
