// Package market owns the market lifecycle: admin-gated creation and the
// one-way resolution transition.
package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/ratelimit"
	"github.com/truthprism/prism/internal/roles"
)

type Service struct {
	companies domain.CompanyRepository
	markets   domain.MarketRepository
	roles     *roles.Service
	limiter   *ratelimit.Limiter
	emitter   domain.EventEmitter
	clock     domain.Clock
}

func NewService(companies domain.CompanyRepository, markets domain.MarketRepository, roleSvc *roles.Service, limiter *ratelimit.Limiter, emitter domain.EventEmitter, clock domain.Clock) *Service {
	return &Service{
		companies: companies,
		markets:   markets,
		roles:     roleSvc,
		limiter:   limiter,
		emitter:   emitter,
		clock:     clock,
	}
}

// Create opens a new market under a company. Admin only, rate limited per
// (company, admin), refused while the company is paused.
func (s *Service) Create(ctx context.Context, admin domain.Identity, companyKey domain.Key, marketID uint64, title, description string, resolutionTime time.Time, numOutcomes uint8) (*domain.Market, error) {
	if len(title) > domain.MaxMarketTitleLen {
		return nil, fmt.Errorf("market.Create: title exceeds %d chars: %w", domain.MaxMarketTitleLen, domain.ErrValidation)
	}
	if len(description) > domain.MaxMarketDescLen {
		return nil, fmt.Errorf("market.Create: description exceeds %d chars: %w", domain.MaxMarketDescLen, domain.ErrValidation)
	}
	if numOutcomes < domain.MinOutcomes {
		return nil, fmt.Errorf("market.Create: need at least %d outcomes: %w", domain.MinOutcomes, domain.ErrValidation)
	}

	now := s.clock.Now()
	if !resolutionTime.After(now) {
		return nil, fmt.Errorf("market.Create: resolution time not in the future: %w", domain.ErrValidation)
	}

	c, err := s.companies.Get(ctx, companyKey)
	if err != nil {
		return nil, fmt.Errorf("market.Create: %w", err)
	}
	if c.Paused {
		return nil, fmt.Errorf("market.Create: %w", domain.ErrCompanyPaused)
	}

	if _, err := s.roles.Active(ctx, companyKey, admin); err != nil {
		return nil, fmt.Errorf("market.Create: %w", err)
	}

	// The limiter persists its count when it allows, so a taken market id
	// must be rejected before the quota is committed.
	marketKey := domain.MarketKey(companyKey, marketID)
	if _, err := s.markets.Get(ctx, marketKey); err == nil {
		return nil, fmt.Errorf("market.Create: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("market.Create: %w", err)
	}

	if err := s.limiter.Allow(ctx, companyKey, admin, now); err != nil {
		return nil, fmt.Errorf("market.Create: %w", err)
	}

	total, err := domain.CheckedAddU64(c.TotalMarkets, 1)
	if err != nil {
		return nil, fmt.Errorf("market.Create: total markets: %w", err)
	}

	m := &domain.Market{
		Key:            marketKey,
		Company:        companyKey,
		MarketID:       marketID,
		Creator:        admin,
		Title:          title,
		Description:    description,
		CreatedAt:      now,
		ResolutionTime: resolutionTime,
		NumOutcomes:    numOutcomes,
		Resolved:       false,
	}

	if err := s.markets.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("market.Create: %w", err)
	}

	c.TotalMarkets = total
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("market.Create: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventMarketCreated, companyKey, now, map[string]any{
		"market":    m.Key.String(),
		"market_id": marketID,
		"creator":   admin.String(),
	}))

	return m, nil
}

// Resolve records the winning outcome. Terminal: a resolved market never
// changes again. Allowed only at or after the resolution time, by a
// non-revoked admin of the market's company.
func (s *Service) Resolve(ctx context.Context, admin domain.Identity, marketKey domain.Key, winningOutcome uint8) (*domain.Market, error) {
	m, err := s.markets.Get(ctx, marketKey)
	if err != nil {
		return nil, fmt.Errorf("market.Resolve: %w", err)
	}

	if m.Resolved {
		return nil, fmt.Errorf("market.Resolve: %w", domain.ErrAlreadyResolved)
	}

	now := s.clock.Now()
	if now.Before(m.ResolutionTime) {
		return nil, fmt.Errorf("market.Resolve: %w", domain.ErrTooEarlyToResolve)
	}

	if winningOutcome >= m.NumOutcomes {
		return nil, fmt.Errorf("market.Resolve: %w", domain.ErrInvalidOutcome)
	}

	if _, err := s.roles.Active(ctx, m.Company, admin); err != nil {
		return nil, fmt.Errorf("market.Resolve: %w", err)
	}

	m.Resolved = true
	m.WinningOutcome = &winningOutcome
	m.ResolvedAt = &now
	m.ResolvedBy = &admin

	if err := s.markets.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("market.Resolve: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventMarketResolved, m.Company, now, map[string]any{
		"market":          marketKey.String(),
		"winning_outcome": winningOutcome,
		"resolved_by":     admin.String(),
	}))

	return m, nil
}

// Get returns a market by key.
func (s *Service) Get(ctx context.Context, key domain.Key) (*domain.Market, error) {
	m, err := s.markets.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("market.Get: %w", err)
	}
	return m, nil
}

// ListByCompany returns a company's markets, oldest first.
func (s *Service) ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.Market, error) {
	out, err := s.markets.ListByCompany(ctx, companyKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("market.ListByCompany: %w", err)
	}
	return out, nil
}
