package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

type MarketRepo struct {
	pool *pgxpool.Pool
}

func NewMarketRepo(pool *pgxpool.Pool) *MarketRepo {
	return &MarketRepo{pool: pool}
}

func (r *MarketRepo) Create(ctx context.Context, m *domain.Market) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO markets (key, company, market_id, creator, title, description, created_at, resolution_time, num_outcomes, resolved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.Key[:], m.Company[:], int64(m.MarketID), m.Creator[:], m.Title, m.Description,
		m.CreatedAt, m.ResolutionTime, int16(m.NumOutcomes), m.Resolved,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("marketRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("marketRepo.Create: %w", err)
	}

	return nil
}

func (r *MarketRepo) Get(ctx context.Context, key domain.Key) (*domain.Market, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT key, company, market_id, creator, title, description, created_at, resolution_time, num_outcomes, resolved, winning_outcome, resolved_at, resolved_by
		 FROM markets WHERE key = $1`,
		key[:],
	)

	m, err := scanMarket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("marketRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("marketRepo.Get: %w", err)
	}

	return m, nil
}

func (r *MarketRepo) Update(ctx context.Context, m *domain.Market) error {
	var (
		winning    *int16
		resolvedBy []byte
	)
	if m.WinningOutcome != nil {
		w := int16(*m.WinningOutcome)
		winning = &w
	}
	if m.ResolvedBy != nil {
		resolvedBy = m.ResolvedBy[:]
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE markets SET resolved = $1, winning_outcome = $2, resolved_at = $3, resolved_by = $4
		 WHERE key = $5`,
		m.Resolved, winning, m.ResolvedAt, resolvedBy, m.Key[:],
	)
	if err != nil {
		return fmt.Errorf("marketRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("marketRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *MarketRepo) ListByCompany(ctx context.Context, company domain.Key, limit, offset int) ([]*domain.Market, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, company, market_id, creator, title, description, created_at, resolution_time, num_outcomes, resolved, winning_outcome, resolved_at, resolved_by
		 FROM markets WHERE company = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`,
		company[:], limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("marketRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var markets []*domain.Market
	for rows.Next() {
		m, scanErr := scanMarket(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("marketRepo.ListByCompany: scan: %w", scanErr)
		}
		markets = append(markets, m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("marketRepo.ListByCompany: rows: %w", err)
	}

	return markets, nil
}

func scanMarket(row pgx.Row) (*domain.Market, error) {
	var (
		m          domain.Market
		key        []byte
		company    []byte
		creator    []byte
		marketID   int64
		outcomes   int16
		winning    *int16
		resolvedBy []byte
	)

	err := row.Scan(&key, &company, &marketID, &creator, &m.Title, &m.Description,
		&m.CreatedAt, &m.ResolutionTime, &outcomes, &m.Resolved, &winning, &m.ResolvedAt, &resolvedBy)
	if err != nil {
		return nil, err
	}

	if m.Key, err = toKey(key); err != nil {
		return nil, err
	}
	if m.Company, err = toKey(company); err != nil {
		return nil, err
	}
	if m.Creator, err = toIdentity(creator); err != nil {
		return nil, err
	}
	m.MarketID = uint64(marketID)
	m.NumOutcomes = uint8(outcomes)
	if winning != nil {
		w := uint8(*winning)
		m.WinningOutcome = &w
	}
	if resolvedBy != nil {
		id, convErr := toIdentity(resolvedBy)
		if convErr != nil {
			return nil, convErr
		}
		m.ResolvedBy = &id
	}

	return &m, nil
}
