// Package memory implements the record store as in-process keyed maps.
// It backs unit tests and the single-node self-hosted mode; the postgres
// package is the durable equivalent.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/truthprism/prism/internal/domain"
)

// Store aggregates the in-memory repositories behind one lock domain.
type Store struct {
	companies  *CompanyRepo
	roles      *AdminRoleRepo
	markets    *MarketRepo
	bets       *BetRepo
	rateLimits *RateLimitRepo
}

func New() *Store {
	return &Store{
		companies:  &CompanyRepo{items: make(map[domain.Key]domain.Company)},
		roles:      &AdminRoleRepo{current: make(map[domain.Key]domain.AdminRole)},
		markets:    &MarketRepo{items: make(map[domain.Key]domain.Market)},
		bets:       &BetRepo{items: make(map[domain.Key]domain.Bet)},
		rateLimits: &RateLimitRepo{items: make(map[domain.Key]domain.RateLimitWindowState)},
	}
}

func (s *Store) Companies() domain.CompanyRepository    { return s.companies }
func (s *Store) AdminRoles() domain.AdminRoleRepository { return s.roles }
func (s *Store) Markets() domain.MarketRepository       { return s.markets }
func (s *Store) Bets() domain.BetRepository             { return s.bets }
func (s *Store) RateLimits() domain.RateLimitRepository { return s.rateLimits }

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

type CompanyRepo struct {
	mu    sync.RWMutex
	items map[domain.Key]domain.Company
}

func (r *CompanyRepo) Create(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.Key]; ok {
		return fmt.Errorf("memory.CompanyRepo.Create: %w", domain.ErrConflict)
	}
	r.items[c.Key] = *c
	return nil
}

func (r *CompanyRepo) Get(_ context.Context, key domain.Key) (*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[key]
	if !ok {
		return nil, fmt.Errorf("memory.CompanyRepo.Get: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.Key]; !ok {
		return fmt.Errorf("memory.CompanyRepo.Update: %w", domain.ErrNotFound)
	}
	r.items[c.Key] = *c
	return nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*domain.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Company, 0, len(r.items))
	for key := range r.items {
		c := r.items[key]
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	return paginate(all, limit, offset), nil
}

// ---------------------------------------------------------------------------
// Admin roles
// ---------------------------------------------------------------------------

// AdminRoleRepo keeps the current record per slot plus the full grant
// history. Revoked records stay in history forever; a fresh grant replaces
// the slot's current record.
type AdminRoleRepo struct {
	mu      sync.RWMutex
	current map[domain.Key]domain.AdminRole
	history []domain.AdminRole
}

func (r *AdminRoleRepo) Create(_ context.Context, role *domain.AdminRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.current[role.Key]; ok && !cur.Revoked {
		return fmt.Errorf("memory.AdminRoleRepo.Create: %w", domain.ErrConflict)
	}
	r.current[role.Key] = *role
	r.history = append(r.history, *role)
	return nil
}

func (r *AdminRoleRepo) Current(_ context.Context, slot domain.Key) (*domain.AdminRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.current[slot]
	if !ok {
		return nil, fmt.Errorf("memory.AdminRoleRepo.Current: %w", domain.ErrNotFound)
	}
	return &role, nil
}

func (r *AdminRoleRepo) Update(_ context.Context, role *domain.AdminRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.current[role.Key]
	if !ok || cur.ID != role.ID {
		return fmt.Errorf("memory.AdminRoleRepo.Update: %w", domain.ErrNotFound)
	}
	r.current[role.Key] = *role

	for i := range r.history {
		if r.history[i].ID == role.ID {
			r.history[i] = *role
		}
	}
	return nil
}

func (r *AdminRoleRepo) ListByCompany(_ context.Context, company domain.Key, limit, offset int) ([]*domain.AdminRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.AdminRole
	for i := range r.history {
		if r.history[i].Company == company {
			role := r.history[i]
			out = append(out, &role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GrantedAt.Before(out[j].GrantedAt) })

	return paginate(out, limit, offset), nil
}

// ---------------------------------------------------------------------------
// Markets
// ---------------------------------------------------------------------------

type MarketRepo struct {
	mu    sync.RWMutex
	items map[domain.Key]domain.Market
}

func (r *MarketRepo) Create(_ context.Context, m *domain.Market) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.Key]; ok {
		return fmt.Errorf("memory.MarketRepo.Create: %w", domain.ErrConflict)
	}
	r.items[m.Key] = *m
	return nil
}

func (r *MarketRepo) Get(_ context.Context, key domain.Key) (*domain.Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[key]
	if !ok {
		return nil, fmt.Errorf("memory.MarketRepo.Get: %w", domain.ErrNotFound)
	}
	return &m, nil
}

func (r *MarketRepo) Update(_ context.Context, m *domain.Market) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.Key]; !ok {
		return fmt.Errorf("memory.MarketRepo.Update: %w", domain.ErrNotFound)
	}
	r.items[m.Key] = *m
	return nil
}

func (r *MarketRepo) ListByCompany(_ context.Context, company domain.Key, limit, offset int) ([]*domain.Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Market
	for key := range r.items {
		if r.items[key].Company == company {
			m := r.items[key]
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return paginate(out, limit, offset), nil
}

// ---------------------------------------------------------------------------
// Bets
// ---------------------------------------------------------------------------

type BetRepo struct {
	mu    sync.RWMutex
	items map[domain.Key]domain.Bet
}

func (r *BetRepo) Create(_ context.Context, b *domain.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[b.Key]; ok {
		return fmt.Errorf("memory.BetRepo.Create: %w", domain.ErrConflict)
	}
	r.items[b.Key] = *b
	return nil
}

func (r *BetRepo) Get(_ context.Context, key domain.Key) (*domain.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[key]
	if !ok {
		return nil, fmt.Errorf("memory.BetRepo.Get: %w", domain.ErrNotFound)
	}
	return &b, nil
}

func (r *BetRepo) Update(_ context.Context, b *domain.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[b.Key]; !ok {
		return fmt.Errorf("memory.BetRepo.Update: %w", domain.ErrNotFound)
	}
	r.items[b.Key] = *b
	return nil
}

func (r *BetRepo) ListByMarket(_ context.Context, market domain.Key, limit, offset int) ([]*domain.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Bet
	for key := range r.items {
		if r.items[key].Market == market {
			b := r.items[key]
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.Before(out[j].PlacedAt) })

	return paginate(out, limit, offset), nil
}

func (r *BetRepo) SumVolume(_ context.Context, market domain.Key) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total uint64
	for key := range r.items {
		if r.items[key].Market == market {
			sum, err := domain.CheckedAddU64(total, r.items[key].Amount)
			if err != nil {
				return 0, fmt.Errorf("memory.BetRepo.SumVolume: %w", err)
			}
			total = sum
		}
	}
	return total, nil
}

// ---------------------------------------------------------------------------
// Rate-limit windows
// ---------------------------------------------------------------------------

type RateLimitRepo struct {
	mu    sync.RWMutex
	items map[domain.Key]domain.RateLimitWindowState
}

func (r *RateLimitRepo) Get(_ context.Context, key domain.Key) (*domain.RateLimitWindowState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.items[key]
	if !ok {
		return nil, fmt.Errorf("memory.RateLimitRepo.Get: %w", domain.ErrNotFound)
	}
	return &w, nil
}

func (r *RateLimitRepo) Put(_ context.Context, w *domain.RateLimitWindowState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[w.Key] = *w
	return nil
}

func paginate[T any](all []*T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
