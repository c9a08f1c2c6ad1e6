package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

type RateLimitRepo struct {
	pool *pgxpool.Pool
}

func NewRateLimitRepo(pool *pgxpool.Pool) *RateLimitRepo {
	return &RateLimitRepo{pool: pool}
}

func (r *RateLimitRepo) Get(ctx context.Context, key domain.Key) (*domain.RateLimitWindowState, error) {
	var (
		w       domain.RateLimitWindowState
		keyB    []byte
		company []byte
		admin   []byte
		actions int32
	)

	err := r.pool.QueryRow(ctx,
		`SELECT key, company, admin, window_start, actions_count
		 FROM rate_limit_windows WHERE key = $1`,
		key[:],
	).Scan(&keyB, &company, &admin, &w.WindowStart, &actions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rateLimitRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("rateLimitRepo.Get: %w", err)
	}

	if w.Key, err = toKey(keyB); err != nil {
		return nil, fmt.Errorf("rateLimitRepo.Get: %w", err)
	}
	if w.Company, err = toKey(company); err != nil {
		return nil, fmt.Errorf("rateLimitRepo.Get: %w", err)
	}
	if w.Admin, err = toIdentity(admin); err != nil {
		return nil, fmt.Errorf("rateLimitRepo.Get: %w", err)
	}
	w.Actions = uint16(actions)

	return &w, nil
}

func (r *RateLimitRepo) Put(ctx context.Context, w *domain.RateLimitWindowState) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rate_limit_windows (key, company, admin, window_start, actions_count)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key) DO UPDATE SET window_start = $4, actions_count = $5`,
		w.Key[:], w.Company[:], w.Admin[:], w.WindowStart, int32(w.Actions),
	)
	if err != nil {
		return fmt.Errorf("rateLimitRepo.Put: %w", err)
	}

	return nil
}
