// Package payout settles winning bets after market resolution.
package payout

import (
	"context"
	"fmt"

	"github.com/truthprism/prism/internal/domain"
)

type Service struct {
	markets domain.MarketRepository
	bets    domain.BetRepository
	emitter domain.EventEmitter
	clock   domain.Clock
}

func NewService(markets domain.MarketRepository, bets domain.BetRepository, emitter domain.EventEmitter, clock domain.Clock) *Service {
	return &Service{
		markets: markets,
		bets:    bets,
		emitter: emitter,
		clock:   clock,
	}
}

// Claim settles the caller's bet on a resolved market. Only the bet's owner
// can claim — the bet record lives at BetKey(market, caller), so looking it
// up by the caller's own key enforces ownership. Payout is the fixed
// amount*2 rule; the claimed flag flips exactly once, making a second claim
// fail rather than double-pay.
func (s *Service) Claim(ctx context.Context, caller domain.Identity, marketKey domain.Key) (uint64, error) {
	b, err := s.bets.Get(ctx, domain.BetKey(marketKey, caller))
	if err != nil {
		return 0, fmt.Errorf("payout.Claim: %w", err)
	}

	m, err := s.markets.Get(ctx, marketKey)
	if err != nil {
		return 0, fmt.Errorf("payout.Claim: %w", err)
	}

	if !m.Resolved || m.WinningOutcome == nil {
		return 0, fmt.Errorf("payout.Claim: %w", domain.ErrNotResolved)
	}
	if b.Claimed {
		return 0, fmt.Errorf("payout.Claim: %w", domain.ErrAlreadyClaimed)
	}
	if b.Outcome != *m.WinningOutcome {
		return 0, fmt.Errorf("payout.Claim: %w", domain.ErrLosingBet)
	}

	amount, err := domain.CheckedMulU64(b.Amount, domain.PayoutMultiplier)
	if err != nil {
		return 0, fmt.Errorf("payout.Claim: payout: %w", err)
	}

	now := s.clock.Now()
	b.Claimed = true
	b.ClaimedAt = &now

	if err := s.bets.Update(ctx, b); err != nil {
		return 0, fmt.Errorf("payout.Claim: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventWinningsClaimed, m.Company, now, map[string]any{
		"bet":    b.Key.String(),
		"bettor": caller.String(),
		"payout": amount,
	}))

	return amount, nil
}
