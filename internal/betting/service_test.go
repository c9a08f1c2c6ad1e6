package betting_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthprism/prism/internal/betting"
	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/merkle"
	"github.com/truthprism/prism/internal/roles"
	"github.com/truthprism/prism/internal/store/memory"
	"github.com/truthprism/prism/internal/treasury"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, domain.Event) {}

var (
	testAuthority = domain.Identity{1}
	testAdmin     = domain.Identity{2}
	testEmployee  = domain.Identity{3}
	testOutsider  = domain.Identity{9}
	testNow       = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      *betting.Service
	roleSvc  *roles.Service
	store    *memory.Store
	ledger   *treasury.MemoryLedger
	clock    *fakeClock
	company  *domain.Company
	market   *domain.Market
	empProof []domain.Digest
}

// newFixture seeds a company whose employee root covers testEmployee (with a
// one-element proof), an active admin role for testAdmin, and an open
// two-outcome market resolving 24h from testNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	ledger := treasury.NewMemoryLedger()
	clock := &fakeClock{now: testNow}
	roleSvc := roles.NewService(store.Companies(), store.AdminRoles(), ledger, nopEmitter{}, clock)
	svc := betting.NewService(store.Companies(), store.Markets(), store.Bets(), roleSvc, nopEmitter{}, clock)

	empLeaf := merkle.Leaf(testEmployee)
	otherLeaf := merkle.Leaf(domain.Identity{4})
	root := merkle.Node(empLeaf, otherLeaf)

	c := &domain.Company{
		Key:         domain.CompanyKey(42),
		Authority:   testAuthority,
		Name:        "acme",
		RootDigest:  root,
		RootVersion: 1,
		CreatedAt:   testNow,
	}
	require.NoError(t, store.Companies().Create(context.Background(), c))

	ledger.Credit(testAuthority, domain.AdminGrantFee)
	_, err := roleSvc.Grant(context.Background(), testAuthority, c.Key, testAdmin)
	require.NoError(t, err)

	m := &domain.Market{
		Key:            domain.MarketKey(c.Key, 7),
		Company:        c.Key,
		MarketID:       7,
		Creator:        testAdmin,
		Title:          "rain tomorrow",
		CreatedAt:      testNow,
		ResolutionTime: testNow.Add(24 * time.Hour),
		NumOutcomes:    2,
	}
	require.NoError(t, store.Markets().Create(context.Background(), m))

	return &fixture{
		svc:      svc,
		roleSvc:  roleSvc,
		store:    store,
		ledger:   ledger,
		clock:    clock,
		company:  c,
		market:   m,
		empProof: []domain.Digest{otherLeaf},
	}
}

func (f *fixture) proofCred() betting.ProofCredential {
	return betting.ProofCredential{Proof: f.empProof, Version: f.company.RootVersion}
}

func TestPlace_AdminPath(t *testing.T) {
	t.Parallel()

	t.Run("admin_needs_no_proof", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		b, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 500, 1, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.BetKey(f.market.Key, testAdmin), b.Key)
		assert.Equal(t, uint64(500), b.Amount)
		assert.Equal(t, uint8(1), b.Outcome)
		assert.False(t, b.Claimed)
	})

	t.Run("revoked_admin_falls_through_to_proof", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.roleSvc.Revoke(context.Background(), testAuthority, f.company.Key, testAdmin)
		require.NoError(t, err)

		// A revoked role no longer authorizes, and without a proof the
		// employee path rejects too.
		_, err = f.svc.Place(context.Background(), testAdmin, f.market.Key, 500, 1, betting.AdminCredential{})
		require.ErrorIs(t, err, domain.ErrProofRequired)
	})
}

func TestPlace_ProofPath(t *testing.T) {
	t.Parallel()

	t.Run("valid_proof", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		b, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, f.proofCred())
		require.NoError(t, err)
		assert.Equal(t, testEmployee, b.Bettor)
	})

	t.Run("no_credential", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, nil)
		require.ErrorIs(t, err, domain.ErrProofRequired)
	})

	t.Run("nil_proof_slice", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, betting.ProofCredential{Version: 1})
		require.ErrorIs(t, err, domain.ErrProofRequired)
	})

	t.Run("missing_version", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, betting.ProofCredential{Proof: f.empProof})
		require.ErrorIs(t, err, domain.ErrProofVersionRequired)
	})

	t.Run("proof_too_deep", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		deep := make([]domain.Digest, merkle.MaxProofDepth+1)

		_, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, betting.ProofCredential{Proof: deep, Version: 1})
		require.ErrorIs(t, err, domain.ErrProofTooDeep)
	})

	t.Run("stale_version", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.company.RootVersion = 2
		require.NoError(t, f.store.Companies().Update(context.Background(), f.company))

		_, err := f.svc.Place(context.Background(), testEmployee, f.market.Key, 100, 0, betting.ProofCredential{Proof: f.empProof, Version: 1})
		require.ErrorIs(t, err, domain.ErrStaleProof)
	})

	t.Run("proof_for_wrong_identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		// A correct proof presented by someone outside the tree fails
		// verification against the root.
		_, err := f.svc.Place(context.Background(), testOutsider, f.market.Key, 100, 0, f.proofCred())
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestPlace_MarketState(t *testing.T) {
	t.Parallel()

	t.Run("zero_amount", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 0, 0, nil)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("outcome_out_of_range", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 2, nil)
		require.ErrorIs(t, err, domain.ErrInvalidOutcome)
	})

	t.Run("resolved_market", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		outcome := uint8(0)
		f.market.Resolved = true
		f.market.WinningOutcome = &outcome
		require.NoError(t, f.store.Markets().Update(context.Background(), f.market))

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 0, nil)
		require.ErrorIs(t, err, domain.ErrMarketResolved)
	})

	t.Run("betting_closed_at_resolution_time", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.clock.Advance(24 * time.Hour)

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 0, nil)
		require.ErrorIs(t, err, domain.ErrBettingClosed)
	})

	t.Run("paused_company", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.company.Paused = true
		require.NoError(t, f.store.Companies().Update(context.Background(), f.company))

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 0, nil)
		require.ErrorIs(t, err, domain.ErrCompanyPaused)
	})

	t.Run("one_bet_per_bettor", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 0, nil)
		require.NoError(t, err)

		_, err = f.svc.Place(context.Background(), testAdmin, f.market.Key, 200, 1, nil)
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown_market", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Place(context.Background(), testAdmin, domain.MarketKey(f.company.Key, 99), 100, 0, nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestVolume(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Place(context.Background(), testAdmin, f.market.Key, 100, 0, nil)
	require.NoError(t, err)
	_, err = f.svc.Place(context.Background(), testEmployee, f.market.Key, 250, 1, f.proofCred())
	require.NoError(t, err)

	total, err := f.svc.Volume(context.Background(), f.market.Key)
	require.NoError(t, err)
	assert.Equal(t, uint64(350), total)

	bets, err := f.svc.ListByMarket(context.Background(), f.market.Key, 10, 0)
	require.NoError(t, err)
	assert.Len(t, bets, 2)
}
