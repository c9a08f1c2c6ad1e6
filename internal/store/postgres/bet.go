package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truthprism/prism/internal/domain"
)

type BetRepo struct {
	pool *pgxpool.Pool
}

func NewBetRepo(pool *pgxpool.Pool) *BetRepo {
	return &BetRepo{pool: pool}
}

func (r *BetRepo) Create(ctx context.Context, b *domain.Bet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bets (key, market, bettor, amount, outcome, placed_at, claimed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.Key[:], b.Market[:], b.Bettor[:], int64(b.Amount), int16(b.Outcome), b.PlacedAt, b.Claimed,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("betRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("betRepo.Create: %w", err)
	}

	return nil
}

func (r *BetRepo) Get(ctx context.Context, key domain.Key) (*domain.Bet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT key, market, bettor, amount, outcome, placed_at, claimed, claimed_at
		 FROM bets WHERE key = $1`,
		key[:],
	)

	b, err := scanBet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("betRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("betRepo.Get: %w", err)
	}

	return b, nil
}

func (r *BetRepo) Update(ctx context.Context, b *domain.Bet) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bets SET claimed = $1, claimed_at = $2 WHERE key = $3`,
		b.Claimed, b.ClaimedAt, b.Key[:],
	)
	if err != nil {
		return fmt.Errorf("betRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("betRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *BetRepo) ListByMarket(ctx context.Context, market domain.Key, limit, offset int) ([]*domain.Bet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, market, bettor, amount, outcome, placed_at, claimed, claimed_at
		 FROM bets WHERE market = $1
		 ORDER BY placed_at
		 LIMIT $2 OFFSET $3`,
		market[:], limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("betRepo.ListByMarket: %w", err)
	}
	defer rows.Close()

	var bets []*domain.Bet
	for rows.Next() {
		b, scanErr := scanBet(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("betRepo.ListByMarket: scan: %w", scanErr)
		}
		bets = append(bets, b)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("betRepo.ListByMarket: rows: %w", err)
	}

	return bets, nil
}

// SumVolume aggregates placed amounts for a market from the bet records;
// the market row carries no live counter.
func (r *BetRepo) SumVolume(ctx context.Context, market domain.Key) (uint64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bets WHERE market = $1`,
		market[:],
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("betRepo.SumVolume: %w", err)
	}

	return uint64(total), nil
}

func scanBet(row pgx.Row) (*domain.Bet, error) {
	var (
		b       domain.Bet
		key     []byte
		market  []byte
		bettor  []byte
		amount  int64
		outcome int16
	)

	err := row.Scan(&key, &market, &bettor, &amount, &outcome, &b.PlacedAt, &b.Claimed, &b.ClaimedAt)
	if err != nil {
		return nil, err
	}

	if b.Key, err = toKey(key); err != nil {
		return nil, err
	}
	if b.Market, err = toKey(market); err != nil {
		return nil, err
	}
	if b.Bettor, err = toIdentity(bettor); err != nil {
		return nil, err
	}
	b.Amount = uint64(amount)
	b.Outcome = uint8(outcome)

	return &b, nil
}
