// Package company owns tenant configuration: registration, membership-root
// rotation, and the pause flag.
package company

import (
	"context"
	"fmt"

	"github.com/truthprism/prism/internal/domain"
)

// Service is the company registry. Each entry point is one atomic unit of
// work: fully applied or rejected with no partial mutation.
type Service struct {
	companies domain.CompanyRepository
	ledger    domain.Ledger
	emitter   domain.EventEmitter
	clock     domain.Clock

	// platformTreasury collects registration fees.
	platformTreasury domain.Identity
}

func NewService(companies domain.CompanyRepository, ledger domain.Ledger, emitter domain.EventEmitter, clock domain.Clock, platformTreasury domain.Identity) *Service {
	return &Service{
		companies:        companies,
		ledger:           ledger,
		emitter:          emitter,
		clock:            clock,
		platformTreasury: platformTreasury,
	}
}

// Register creates a company for the calling authority. The registration fee
// moves to the platform treasury before the record is written; a failed
// transfer aborts the whole operation.
func (s *Service) Register(ctx context.Context, authority domain.Identity, companyID uint64, name string, root domain.Digest) (*domain.Company, error) {
	if len(name) > domain.MaxCompanyNameLen {
		return nil, fmt.Errorf("company.Register: name exceeds %d chars: %w", domain.MaxCompanyNameLen, domain.ErrValidation)
	}

	if err := s.ledger.Transfer(ctx, authority, s.platformTreasury, domain.CompanyRegistrationFee); err != nil {
		return nil, fmt.Errorf("company.Register: registration fee: %w", err)
	}

	now := s.clock.Now()
	c := &domain.Company{
		Key:         domain.CompanyKey(companyID),
		Authority:   authority,
		CompanyID:   companyID,
		Name:        name,
		AdminCount:  0,
		RootDigest:  root,
		RootVersion: 1,
		CreatedAt:   now,
		Paused:      false,
	}

	if err := s.companies.Create(ctx, c); err != nil {
		// The fee moved before the uniqueness check; a rejected create
		// refunds it so the operation leaves no trace. The refund draws on
		// the amount just credited and cannot underfund.
		_ = s.ledger.Transfer(ctx, s.platformTreasury, authority, domain.CompanyRegistrationFee)
		return nil, fmt.Errorf("company.Register: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventCompanyRegistered, c.Key, now, map[string]any{
		"company_id": companyID,
		"authority":  authority.String(),
	}))

	return c, nil
}

// RotateRoot replaces the employee membership root and bumps its version.
// Authority only. Proofs generated against the old root become stale.
func (s *Service) RotateRoot(ctx context.Context, caller domain.Identity, companyKey domain.Key, newRoot domain.Digest) (*domain.Company, error) {
	c, err := s.companies.Get(ctx, companyKey)
	if err != nil {
		return nil, fmt.Errorf("company.RotateRoot: %w", err)
	}

	if c.Authority != caller {
		return nil, fmt.Errorf("company.RotateRoot: %w", domain.ErrUnauthorized)
	}

	version, err := domain.CheckedAddU64(c.RootVersion, 1)
	if err != nil {
		return nil, fmt.Errorf("company.RotateRoot: root version: %w", err)
	}

	c.RootDigest = newRoot
	c.RootVersion = version

	if err := s.companies.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("company.RotateRoot: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventRootRotated, c.Key, s.clock.Now(), map[string]any{
		"new_version": version,
	}))

	return c, nil
}

// TogglePause flips the company pause flag. Authority only. While paused,
// market creation and bet placement both refuse.
func (s *Service) TogglePause(ctx context.Context, caller domain.Identity, companyKey domain.Key) (*domain.Company, error) {
	c, err := s.companies.Get(ctx, companyKey)
	if err != nil {
		return nil, fmt.Errorf("company.TogglePause: %w", err)
	}

	if c.Authority != caller {
		return nil, fmt.Errorf("company.TogglePause: %w", domain.ErrUnauthorized)
	}

	c.Paused = !c.Paused

	if err := s.companies.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("company.TogglePause: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventPauseToggled, c.Key, s.clock.Now(), map[string]any{
		"paused": c.Paused,
	}))

	return c, nil
}

// Get returns a company by key.
func (s *Service) Get(ctx context.Context, key domain.Key) (*domain.Company, error) {
	c, err := s.companies.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("company.Get: %w", err)
	}
	return c, nil
}

// List returns companies ordered by creation time.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Company, error) {
	out, err := s.companies.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("company.List: %w", err)
	}
	return out, nil
}
