// Package betting places wagers under the hybrid authorization model: an
// explicit admin role, or an employee membership proof against the
// company's current root.
package betting

import (
	"context"
	"errors"
	"fmt"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/merkle"
	"github.com/truthprism/prism/internal/roles"
)

// Credential is the tagged authorization variant supplied with a bet.
// A nil Credential means the caller presented nothing.
type Credential interface {
	credential()
}

// AdminCredential asserts the bettor holds an admin role; the engine looks
// the role up by its derived slot key.
type AdminCredential struct{}

// ProofCredential carries an employee membership proof and the root version
// it was generated against. Version 0 means "not supplied" — versions start
// at 1, so 0 never collides with a real one.
type ProofCredential struct {
	Proof   []domain.Digest
	Version uint64
}

func (AdminCredential) credential() {}
func (ProofCredential) credential() {}

type Service struct {
	companies domain.CompanyRepository
	markets   domain.MarketRepository
	bets      domain.BetRepository
	roles     *roles.Service
	emitter   domain.EventEmitter
	clock     domain.Clock
}

func NewService(companies domain.CompanyRepository, markets domain.MarketRepository, bets domain.BetRepository, roleSvc *roles.Service, emitter domain.EventEmitter, clock domain.Clock) *Service {
	return &Service{
		companies: companies,
		markets:   markets,
		bets:      bets,
		roles:     roleSvc,
		emitter:   emitter,
		clock:     clock,
	}
}

// Place wagers amount on an outcome of an open market. One bet per
// (market, bettor): the derived record key collides on a second attempt,
// so uniqueness needs no explicit existence check.
func (s *Service) Place(ctx context.Context, bettor domain.Identity, marketKey domain.Key, amount uint64, outcome uint8, cred Credential) (*domain.Bet, error) {
	if amount == 0 {
		return nil, fmt.Errorf("betting.Place: %w", domain.ErrInvalidAmount)
	}

	m, err := s.markets.Get(ctx, marketKey)
	if err != nil {
		return nil, fmt.Errorf("betting.Place: %w", err)
	}

	if m.Resolved {
		return nil, fmt.Errorf("betting.Place: %w", domain.ErrMarketResolved)
	}
	if outcome >= m.NumOutcomes {
		return nil, fmt.Errorf("betting.Place: %w", domain.ErrInvalidOutcome)
	}

	now := s.clock.Now()
	if !now.Before(m.ResolutionTime) {
		return nil, fmt.Errorf("betting.Place: %w", domain.ErrBettingClosed)
	}

	c, err := s.companies.Get(ctx, m.Company)
	if err != nil {
		return nil, fmt.Errorf("betting.Place: %w", err)
	}
	if c.Paused {
		return nil, fmt.Errorf("betting.Place: %w", domain.ErrCompanyPaused)
	}

	if err := s.authorize(ctx, c, bettor, cred); err != nil {
		return nil, fmt.Errorf("betting.Place: %w", err)
	}

	b := &domain.Bet{
		Key:      domain.BetKey(marketKey, bettor),
		Market:   marketKey,
		Bettor:   bettor,
		Amount:   amount,
		Outcome:  outcome,
		PlacedAt: now,
		Claimed:  false,
	}

	if err := s.bets.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("betting.Place: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventBetPlaced, c.Key, now, map[string]any{
		"bet":     b.Key.String(),
		"market":  marketKey.String(),
		"bettor":  bettor.String(),
		"amount":  amount,
		"outcome": outcome,
	}))

	return b, nil
}

// authorize resolves the dual authorization paths. A live admin role always
// suffices; otherwise the employee path requires a proof at the company's
// current root version that verifies against the current root.
func (s *Service) authorize(ctx context.Context, c *domain.Company, bettor domain.Identity, cred Credential) error {
	_, roleErr := s.roles.Active(ctx, c.Key, bettor)
	if roleErr == nil {
		return nil
	}
	if !errors.Is(roleErr, domain.ErrUnauthorized) && !errors.Is(roleErr, domain.ErrRoleRevoked) {
		return roleErr
	}

	proof, ok := cred.(ProofCredential)
	if !ok || proof.Proof == nil {
		return domain.ErrProofRequired
	}
	if proof.Version == 0 {
		return domain.ErrProofVersionRequired
	}
	if len(proof.Proof) > merkle.MaxProofDepth {
		return domain.ErrProofTooDeep
	}
	if proof.Version != c.RootVersion {
		return domain.ErrStaleProof
	}

	if !merkle.Verify(proof.Proof, c.RootDigest, merkle.Leaf(bettor)) {
		return domain.ErrUnauthorized
	}
	return nil
}

// Get returns a bet by key.
func (s *Service) Get(ctx context.Context, key domain.Key) (*domain.Bet, error) {
	b, err := s.bets.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("betting.Get: %w", err)
	}
	return b, nil
}

// ListByMarket returns a market's bets, oldest first.
func (s *Service) ListByMarket(ctx context.Context, marketKey domain.Key, limit, offset int) ([]*domain.Bet, error) {
	out, err := s.bets.ListByMarket(ctx, marketKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("betting.ListByMarket: %w", err)
	}
	return out, nil
}

// Volume sums a market's bet amounts out-of-band. The market record itself
// carries no live volume counter; see domain.Market.TotalVolume.
func (s *Service) Volume(ctx context.Context, marketKey domain.Key) (uint64, error) {
	total, err := s.bets.SumVolume(ctx, marketKey)
	if err != nil {
		return 0, fmt.Errorf("betting.Volume: %w", err)
	}
	return total, nil
}
