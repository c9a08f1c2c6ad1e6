package domain

import (
	"context"
	"time"
)

// PayoutMultiplier is the fixed payout rule: winnings = amount * 2. The
// pricing model is deliberately this placeholder; there is no pool-
// proportional calculation.
const PayoutMultiplier = uint64(2)

// Bet is one wager by one identity on one market. The (market, bettor) pair
// derives the record key, so a second placement collides instead of needing
// an existence check. Claimed transitions false -> true exactly once.
type Bet struct {
	Key       Key        `json:"key"` // BetKey(market, bettor)
	Market    Key        `json:"market"`
	Bettor    Identity   `json:"bettor"`
	Amount    uint64     `json:"amount"`
	Outcome   uint8      `json:"outcome"`
	PlacedAt  time.Time  `json:"placed_at"`
	Claimed   bool       `json:"claimed"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

type BetRepository interface {
	// Create stores a bet. Fails with ErrConflict when the key is taken.
	Create(ctx context.Context, b *Bet) error
	Get(ctx context.Context, key Key) (*Bet, error)
	Update(ctx context.Context, b *Bet) error
	ListByMarket(ctx context.Context, market Key, limit, offset int) ([]*Bet, error)

	// SumVolume aggregates bet amounts for a market by summing records.
	// This is the out-of-band replacement for Market.TotalVolume.
	SumVolume(ctx context.Context, market Key) (uint64, error)
}
