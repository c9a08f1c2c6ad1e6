// Package postgres implements the record store on pgx. Each entity gets a
// repo; Store is the facade handed to the services.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	companies  *CompanyRepo
	roles      *AdminRoleRepo
	markets    *MarketRepo
	bets       *BetRepo
	rateLimits *RateLimitRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		companies:  NewCompanyRepo(pool),
		roles:      NewAdminRoleRepo(pool),
		markets:    NewMarketRepo(pool),
		bets:       NewBetRepo(pool),
		rateLimits: NewRateLimitRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Companies() domain.CompanyRepository    { return s.companies }
func (s *Store) AdminRoles() domain.AdminRoleRepository { return s.roles }
func (s *Store) Markets() domain.MarketRepository       { return s.markets }
func (s *Store) Bets() domain.BetRepository             { return s.bets }
func (s *Store) RateLimits() domain.RateLimitRepository { return s.rateLimits }
