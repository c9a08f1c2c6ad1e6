// Package treasury provides the in-memory value-transfer ledger used for
// registration and grant fees. Real value custody lives outside the core;
// this ledger is the single-node stand-in for it.
package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/truthprism/prism/internal/domain"
)

// MemoryLedger tracks account balances in memory. Transfers are atomic
// under the mutex: either both sides move or neither does.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[domain.Identity]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[domain.Identity]uint64)}
}

// Credit funds an account directly. Used at bootstrap and in tests.
func (l *MemoryLedger) Credit(account domain.Identity, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// Balance reports an account's current balance.
func (l *MemoryLedger) Balance(account domain.Identity) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

// Transfer moves amount from one account to another. Fails with ErrPayment
// when the source balance is insufficient and ErrOverflow when the credit
// would wrap; neither side moves on failure.
func (l *MemoryLedger) Transfer(_ context.Context, from, to domain.Identity, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("treasury.Transfer: insufficient balance: %w", domain.ErrPayment)
	}

	credited, err := domain.CheckedAddU64(l.balances[to], amount)
	if err != nil {
		return fmt.Errorf("treasury.Transfer: credit: %w", err)
	}

	l.balances[from] -= amount
	l.balances[to] = credited
	return nil
}

// Compile-time interface check.
var _ domain.Ledger = (*MemoryLedger)(nil)
