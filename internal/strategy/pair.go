package strategy

import (
	"errors"
	"fmt"
	"math"

	"leadlag/internal/book"
)

// Role tags which half of the pair an instrument plays. It is a closed
// two-variant set; anything outside it is rejected, never silently
// dropped.
type Role uint8

const (
	Leader Role = iota
	Follower
)

func (r Role) String() string {
	switch r {
	case Leader:
		return "leader"
	case Follower:
		return "follower"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Signal is the ternary output of a strategy evaluation.
type Signal int8

const (
	SignalSell Signal = -1
	SignalNone Signal = 0
	SignalBuy  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	}
	return "NONE"
}

var (
	// ErrUnknownRole reports a Role value outside the Leader/Follower set.
	ErrUnknownRole = errors.New("strategy: unknown role")

	// ErrInvalidTick reports a non-finite price or quantity, or a
	// negative quantity.
	ErrInvalidTick = errors.New("strategy: invalid tick")
)

// PairStrategy owns one order book per role and derives a trading
// signal for the follower instrument from the leader's volume
// imbalance. The two books are independent and independently locked,
// so there is no ordering between them to get wrong.
type PairStrategy struct {
	leaderBook     *book.OrderBook
	followerBook   *book.OrderBook
	entryThreshold float64
}

// NewPairStrategy allocates the two books. The entry threshold is
// fixed for the life of the strategy.
func NewPairStrategy(entryThreshold float64) *PairStrategy {
	return &PairStrategy{
		leaderBook:     book.New(),
		followerBook:   book.New(),
		entryThreshold: entryThreshold,
	}
}

// OnMarketData routes one market-data event into the book selected by
// role. Validation happens here, at the strategy boundary, so the
// books only ever accumulate usable volume: NaN or infinite prices and
// quantities, and negative quantities, are rejected with
// ErrInvalidTick.
func (p *PairStrategy) OnMarketData(role Role, price, quantity float64, isBid bool) error {
	if !isFinite(price) || !isFinite(quantity) || quantity < 0 {
		return fmt.Errorf("%w: price=%v quantity=%v", ErrInvalidTick, price, quantity)
	}
	b, err := p.Book(role)
	if err != nil {
		return err
	}
	b.AddOrder(price, quantity, isBid)
	return nil
}

// Book returns the order book backing the given role. Hosts use this
// for per-book maintenance (counts, Clear) without the strategy
// growing pass-through methods for each.
func (p *PairStrategy) Book(role Role) (*book.OrderBook, error) {
	switch role {
	case Leader:
		return p.leaderBook, nil
	case Follower:
		return p.followerBook, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
}

// CheckSignals compares the leader's current imbalance against the
// entry threshold. Comparisons are strict, so an imbalance exactly at
// the threshold yields SignalNone. The evaluation is stateless and
// re-derived from the books on every call; there is no hysteresis and
// no memory of the previous signal.
func (p *PairStrategy) CheckSignals() Signal {
	leaderOBI := p.leaderBook.Imbalance()

	// Lead-lag rule: leader imbalance predicts follower movement.
	switch {
	case leaderOBI > p.entryThreshold:
		return SignalBuy
	case leaderOBI < -p.entryThreshold:
		return SignalSell
	}
	return SignalNone
}

// LeaderImbalance exposes the leader book's current imbalance with no
// threshold logic applied.
func (p *PairStrategy) LeaderImbalance() float64 {
	return p.leaderBook.Imbalance()
}

// EntryThreshold returns the threshold the strategy was built with.
func (p *PairStrategy) EntryThreshold() float64 {
	return p.entryThreshold
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
