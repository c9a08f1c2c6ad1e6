package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

// AdminRoleRepo keeps the full grant history. The partial unique index on
// (slot_key) WHERE NOT revoked enforces one live role per slot; revoked
// rows stay forever.
type AdminRoleRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRoleRepo(pool *pgxpool.Pool) *AdminRoleRepo {
	return &AdminRoleRepo{pool: pool}
}

func (r *AdminRoleRepo) Create(ctx context.Context, role *domain.AdminRole) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_roles (id, slot_key, company, subject, granted_at, granted_by, revoked)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Key[:], role.Company[:], role.Subject[:], role.GrantedAt, role.GrantedBy[:], role.Revoked,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("adminRoleRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("adminRoleRepo.Create: %w", err)
	}

	return nil
}

func (r *AdminRoleRepo) Current(ctx context.Context, slot domain.Key) (*domain.AdminRole, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, slot_key, company, subject, granted_at, granted_by, revoked, revoked_at, revoked_by
		 FROM admin_roles WHERE slot_key = $1
		 ORDER BY granted_at DESC
		 LIMIT 1`,
		slot[:],
	)

	role, err := scanAdminRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adminRoleRepo.Current: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("adminRoleRepo.Current: %w", err)
	}

	return role, nil
}

func (r *AdminRoleRepo) Update(ctx context.Context, role *domain.AdminRole) error {
	var revokedBy []byte
	if role.RevokedBy != nil {
		revokedBy = role.RevokedBy[:]
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE admin_roles SET revoked = $1, revoked_at = $2, revoked_by = $3
		 WHERE id = $4`,
		role.Revoked, role.RevokedAt, revokedBy, role.ID,
	)
	if err != nil {
		return fmt.Errorf("adminRoleRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adminRoleRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *AdminRoleRepo) ListByCompany(ctx context.Context, company domain.Key, limit, offset int) ([]*domain.AdminRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, slot_key, company, subject, granted_at, granted_by, revoked, revoked_at, revoked_by
		 FROM admin_roles WHERE company = $1
		 ORDER BY granted_at
		 LIMIT $2 OFFSET $3`,
		company[:], limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("adminRoleRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var roles []*domain.AdminRole
	for rows.Next() {
		role, scanErr := scanAdminRole(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("adminRoleRepo.ListByCompany: scan: %w", scanErr)
		}
		roles = append(roles, role)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("adminRoleRepo.ListByCompany: rows: %w", err)
	}

	return roles, nil
}

func scanAdminRole(row pgx.Row) (*domain.AdminRole, error) {
	var (
		role      domain.AdminRole
		slot      []byte
		company   []byte
		subject   []byte
		grantedBy []byte
		revokedBy []byte
	)

	err := row.Scan(&role.ID, &slot, &company, &subject, &role.GrantedAt, &grantedBy, &role.Revoked, &role.RevokedAt, &revokedBy)
	if err != nil {
		return nil, err
	}

	if role.Key, err = toKey(slot); err != nil {
		return nil, err
	}
	if role.Company, err = toKey(company); err != nil {
		return nil, err
	}
	if role.Subject, err = toIdentity(subject); err != nil {
		return nil, err
	}
	if role.GrantedBy, err = toIdentity(grantedBy); err != nil {
		return nil, err
	}
	if revokedBy != nil {
		id, convErr := toIdentity(revokedBy)
		if convErr != nil {
			return nil, convErr
		}
		role.RevokedBy = &id
	}

	return &role, nil
}
