package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type CompanyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO companies (key, authority, company_id, name, admin_count, employee_root, employee_root_version, created_at, paused, total_markets)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.Key[:], c.Authority[:], int64(c.CompanyID), c.Name, int32(c.AdminCount),
		c.RootDigest[:], int64(c.RootVersion), c.CreatedAt, c.Paused, int64(c.TotalMarkets),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("companyRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("companyRepo.Create: %w", err)
	}

	return nil
}

func (r *CompanyRepo) Get(ctx context.Context, key domain.Key) (*domain.Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT key, authority, company_id, name, admin_count, employee_root, employee_root_version, created_at, paused, total_markets
		 FROM companies WHERE key = $1`,
		key[:],
	)

	c, err := scanCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("companyRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("companyRepo.Get: %w", err)
	}

	return c, nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE companies
		 SET admin_count = $1, employee_root = $2, employee_root_version = $3, paused = $4, total_markets = $5
		 WHERE key = $6`,
		int32(c.AdminCount), c.RootDigest[:], int64(c.RootVersion), c.Paused, int64(c.TotalMarkets), c.Key[:],
	)
	if err != nil {
		return fmt.Errorf("companyRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("companyRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*domain.Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, authority, company_id, name, admin_count, employee_root, employee_root_version, created_at, paused, total_markets
		 FROM companies ORDER BY created_at
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("companyRepo.List: %w", err)
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		c, scanErr := scanCompany(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("companyRepo.List: scan: %w", scanErr)
		}
		companies = append(companies, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("companyRepo.List: rows: %w", err)
	}

	return companies, nil
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var (
		c          domain.Company
		key        []byte
		authority  []byte
		root       []byte
		companyID  int64
		adminCount int32
		version    int64
		markets    int64
	)

	err := row.Scan(&key, &authority, &companyID, &c.Name, &adminCount, &root, &version, &c.CreatedAt, &c.Paused, &markets)
	if err != nil {
		return nil, err
	}

	if c.Key, err = toKey(key); err != nil {
		return nil, err
	}
	if c.Authority, err = toIdentity(authority); err != nil {
		return nil, err
	}
	if c.RootDigest, err = toDigest(root); err != nil {
		return nil, err
	}
	c.CompanyID = uint64(companyID)
	c.AdminCount = uint16(adminCount)
	c.RootVersion = uint64(version)
	c.TotalMarkets = uint64(markets)

	return &c, nil
}
