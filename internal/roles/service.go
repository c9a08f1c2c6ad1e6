// Package roles manages explicitly granted admin capabilities scoped to a
// company: the small, auditable half of the hybrid access-control model.
package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/truthprism/prism/internal/domain"
)

type Service struct {
	companies domain.CompanyRepository
	roles     domain.AdminRoleRepository
	ledger    domain.Ledger
	emitter   domain.EventEmitter
	clock     domain.Clock
}

func NewService(companies domain.CompanyRepository, roles domain.AdminRoleRepository, ledger domain.Ledger, emitter domain.EventEmitter, clock domain.Clock) *Service {
	return &Service{
		companies: companies,
		roles:     roles,
		ledger:    ledger,
		emitter:   emitter,
		clock:     clock,
	}
}

// Grant creates an admin role for recipient. Two-party rule: the granter is
// the company authority, or holds a non-revoked role themselves. The grant
// fee goes to the company account; a rejected grant refunds it. Role
// creation and the admin-count increment apply together or not at all.
func (s *Service) Grant(ctx context.Context, granter domain.Identity, companyKey domain.Key, recipient domain.Identity) (*domain.AdminRole, error) {
	c, err := s.companies.Get(ctx, companyKey)
	if err != nil {
		return nil, fmt.Errorf("roles.Grant: %w", err)
	}

	if err := s.granterStanding(ctx, c, granter); err != nil {
		return nil, fmt.Errorf("roles.Grant: %w", err)
	}

	if c.AdminCount >= domain.MaxAdminsPerCompany {
		return nil, fmt.Errorf("roles.Grant: %w", domain.ErrTooManyAdmins)
	}

	count, err := domain.CheckedAddU16(c.AdminCount, 1)
	if err != nil {
		return nil, fmt.Errorf("roles.Grant: admin count: %w", err)
	}

	if err := s.ledger.Transfer(ctx, granter, c.Key.Account(), domain.AdminGrantFee); err != nil {
		return nil, fmt.Errorf("roles.Grant: grant fee: %w", err)
	}

	now := s.clock.Now()
	role := &domain.AdminRole{
		ID:        uuid.New(),
		Key:       domain.AdminRoleKey(companyKey, recipient),
		Company:   companyKey,
		Subject:   recipient,
		GrantedAt: now,
		GrantedBy: granter,
		Revoked:   false,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		// The fee moved before the slot-occupancy check; a rejected create
		// refunds it so the operation leaves no trace.
		_ = s.ledger.Transfer(ctx, c.Key.Account(), granter, domain.AdminGrantFee)
		return nil, fmt.Errorf("roles.Grant: %w", err)
	}

	c.AdminCount = count
	if err := s.companies.Update(ctx, c); err != nil {
		_ = s.ledger.Transfer(ctx, c.Key.Account(), granter, domain.AdminGrantFee)
		return nil, fmt.Errorf("roles.Grant: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventAdminGranted, c.Key, now, map[string]any{
		"subject":    recipient.String(),
		"granted_by": granter.String(),
	}))

	return role, nil
}

// granterStanding enforces the two-party authorization rule for Grant:
// authority identity equality, or a non-revoked role record of the
// granter's own.
func (s *Service) granterStanding(ctx context.Context, c *domain.Company, granter domain.Identity) error {
	if granter == c.Authority {
		return nil
	}

	role, err := s.roles.Current(ctx, domain.AdminRoleKey(c.Key, granter))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if role.Revoked {
		return domain.ErrRoleRevoked
	}
	return nil
}

// Revoke marks the subject's role revoked. Authority only — deliberately
// asymmetric with Grant. One-way: a revoked record never reverts.
func (s *Service) Revoke(ctx context.Context, revoker domain.Identity, companyKey domain.Key, subject domain.Identity) (*domain.AdminRole, error) {
	c, err := s.companies.Get(ctx, companyKey)
	if err != nil {
		return nil, fmt.Errorf("roles.Revoke: %w", err)
	}

	if revoker != c.Authority {
		return nil, fmt.Errorf("roles.Revoke: %w", domain.ErrUnauthorized)
	}

	role, err := s.roles.Current(ctx, domain.AdminRoleKey(companyKey, subject))
	if err != nil {
		return nil, fmt.Errorf("roles.Revoke: %w", err)
	}

	if role.Revoked {
		return nil, fmt.Errorf("roles.Revoke: %w", domain.ErrAlreadyRevoked)
	}

	count, err := domain.CheckedSubU16(c.AdminCount, 1)
	if err != nil {
		return nil, fmt.Errorf("roles.Revoke: admin count: %w", err)
	}

	now := s.clock.Now()
	role.Revoked = true
	role.RevokedAt = &now
	role.RevokedBy = &revoker

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("roles.Revoke: %w", err)
	}

	c.AdminCount = count
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("roles.Revoke: %w", err)
	}

	s.emitter.Emit(ctx, domain.NewEvent(domain.EventAdminRevoked, c.Key, now, map[string]any{
		"subject":    subject.String(),
		"revoked_by": revoker.String(),
	}))

	return role, nil
}

// Active returns the subject's current non-revoked role for a company.
// ErrUnauthorized when no role was ever granted, ErrRoleRevoked when the
// current record is revoked. Market creation, resolution, and the admin
// betting path all gate on this.
func (s *Service) Active(ctx context.Context, companyKey domain.Key, subject domain.Identity) (*domain.AdminRole, error) {
	role, err := s.roles.Current(ctx, domain.AdminRoleKey(companyKey, subject))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("roles.Active: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("roles.Active: %w", err)
	}
	if role.Revoked {
		return nil, fmt.Errorf("roles.Active: %w", domain.ErrRoleRevoked)
	}
	return role, nil
}

// ListByCompany returns the grant history for a company, oldest first.
func (s *Service) ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.AdminRole, error) {
	out, err := s.roles.ListByCompany(ctx, companyKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("roles.ListByCompany: %w", err)
	}
	return out, nil
}
