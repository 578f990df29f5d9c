package core

// Direction represents the side of a trade or order (Buy/Sell)
type Direction int8

const (
	Buy  Direction = 1
	Sell Direction = -1
)

func (d Direction) String() string {
	if d == Buy {
		return "buy"
	}
	return "sell"
}

// Tick represents a single market-data event for one instrument.
// Every feed (historical CSV replay or live exchange stream) is
// normalized into this shape before it reaches a strategy.
type Tick struct {
	Symbol    string    `json:"s"`
	Price     float64   `json:"p"`
	Quantity  float64   `json:"q"`
	Side      Direction `json:"S"`
	Timestamp int64     `json:"t"` // Unix Microseconds
}

// IsBid reports whether the tick lands on the bid side of a book.
// Aggressive buying is read as bid pressure.
func (t Tick) IsBid() bool { return t.Side == Buy }
