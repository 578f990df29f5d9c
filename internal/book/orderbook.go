package book

import "sync"

// Order is a single price/quantity pair. The side is implied by which
// slice of the book holds it; orders carry no identity and are never
// mutated after insertion.
type Order struct {
	Price    float64
	Quantity float64
}

// OrderBook accumulates every bid and ask seen for one instrument.
// It is not a matching book: orders are only appended or wholesale
// cleared, and the aggregate volume on each side feeds the imbalance
// statistic. All methods are safe for concurrent use; a single mutex
// serializes every access, so a completed AddOrder is fully visible to
// any later read and Clear is atomic with respect to readers.
type OrderBook struct {
	mu   sync.Mutex
	bids []Order
	asks []Order
}

func New() *OrderBook {
	return &OrderBook{}
}

// AddOrder appends an order to the bid side when isBid is true,
// otherwise to the ask side. The book itself does not validate price
// or quantity; callers that need validation do it at their boundary.
func (b *OrderBook) AddOrder(price, quantity float64, isBid bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o := Order{Price: price, Quantity: quantity}
	if isBid {
		b.bids = append(b.bids, o)
	} else {
		b.asks = append(b.asks, o)
	}
}

// Imbalance returns (bidVol - askVol) / (bidVol + askVol) over all
// resting orders, a value in [-1, 1] for non-negative quantities.
// A book with zero total volume yields exactly 0. The sums are
// recomputed on every call; there is no cached running total, so the
// rounding behavior is identical no matter how the orders arrived.
func (b *OrderBook) Imbalance() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var bidVol, askVol float64
	for _, o := range b.bids {
		bidVol += o.Quantity
	}
	for _, o := range b.asks {
		askVol += o.Quantity
	}

	total := bidVol + askVol
	if total == 0 {
		return 0.0 // avoid division by zero
	}
	return (bidVol - askVol) / total
}

// Clear empties both sides. Readers never observe a book with only one
// side cleared.
func (b *OrderBook) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bids = nil
	b.asks = nil
}

// BidCount returns the number of orders resting on the bid side.
func (b *OrderBook) BidCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bids)
}

// AskCount returns the number of orders resting on the ask side.
func (b *OrderBook) AskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.asks)
}
