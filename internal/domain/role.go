package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminRole binds one identity to one company as an administrator. The
// (company, subject) pair maps to a single slot key; at most one non-revoked
// role occupies a slot at a time. Revocation is one-way: a revoked record
// never reverts, and re-granting creates a fresh record while the old one
// stays in history.
type AdminRole struct {
	ID        uuid.UUID  `json:"id"`
	Key       Key        `json:"key"` // slot: AdminRoleKey(company, subject)
	Company   Key        `json:"company"`
	Subject   Identity   `json:"subject"`
	GrantedAt time.Time  `json:"granted_at"`
	GrantedBy Identity   `json:"granted_by"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	RevokedBy *Identity  `json:"revoked_by,omitempty"`
}

type AdminRoleRepository interface {
	// Create stores a fresh role. Fails with ErrConflict when a non-revoked
	// role already occupies the slot.
	Create(ctx context.Context, r *AdminRole) error

	// Current returns the most recent role in the slot, revoked or not.
	// ErrNotFound when the slot has never been granted.
	Current(ctx context.Context, slot Key) (*AdminRole, error)

	// Update persists revocation metadata on an existing record.
	Update(ctx context.Context, r *AdminRole) error

	ListByCompany(ctx context.Context, company Key, limit, offset int) ([]*AdminRole, error)
}
