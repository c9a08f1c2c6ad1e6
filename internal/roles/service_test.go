package roles_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/roles"
	"github.com/truthprism/prism/internal/store/memory"
	"github.com/truthprism/prism/internal/treasury"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type captureEmitter struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *captureEmitter) Emit(_ context.Context, ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

var (
	testAuthority = domain.Identity{1}
	testAdmin     = domain.Identity{2}
	testRecipient = domain.Identity{3}
	testNow       = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc       *roles.Service
	store     *memory.Store
	ledger    *treasury.MemoryLedger
	companies domain.CompanyRepository
	company   *domain.Company
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	ledger := treasury.NewMemoryLedger()
	emitter := &captureEmitter{}
	svc := roles.NewService(store.Companies(), store.AdminRoles(), ledger, emitter, fakeClock{testNow})

	c := &domain.Company{
		Key:         domain.CompanyKey(42),
		Authority:   testAuthority,
		Name:        "acme",
		RootDigest:  domain.Digest{0xaa},
		RootVersion: 1,
		CreatedAt:   testNow,
	}
	require.NoError(t, store.Companies().Create(context.Background(), c))

	return &fixture{
		svc:       svc,
		store:     store,
		ledger:    ledger,
		companies: store.Companies(),
		company:   c,
	}
}

func TestGrant(t *testing.T) {
	t.Parallel()

	t.Run("authority_grants", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)

		role, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		assert.Equal(t, domain.AdminRoleKey(f.company.Key, testRecipient), role.Key)
		assert.Equal(t, testRecipient, role.Subject)
		assert.Equal(t, testAuthority, role.GrantedBy)
		assert.False(t, role.Revoked)

		// Fee lands in the company account, not the platform treasury.
		assert.Equal(t, uint64(domain.AdminGrantFee), f.ledger.Balance(f.company.Key.Account()))

		c, err := f.companies.Get(context.Background(), f.company.Key)
		require.NoError(t, err)
		assert.Equal(t, uint16(1), c.AdminCount)
	})

	t.Run("existing_admin_grants", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)
		f.ledger.Credit(testAdmin, domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testAdmin)
		require.NoError(t, err)

		role, err := f.svc.Grant(context.Background(), testAdmin, f.company.Key, testRecipient)
		require.NoError(t, err)
		assert.Equal(t, testAdmin, role.GrantedBy)
	})

	t.Run("stranger_cannot_grant", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testRecipient, domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testRecipient, f.company.Key, testAdmin)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("revoked_admin_cannot_grant", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)
		f.ledger.Credit(testAdmin, domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testAdmin)
		require.NoError(t, err)
		_, err = f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testAdmin)
		require.NoError(t, err)

		_, err = f.svc.Grant(context.Background(), testAdmin, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrRoleRevoked)
	})

	t.Run("insufficient_fee", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrPayment)
	})

	t.Run("admin_cap", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.company.AdminCount = domain.MaxAdminsPerCompany
		require.NoError(t, f.companies.Update(context.Background(), f.company))
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrTooManyAdmins)
	})

	t.Run("duplicate_active_role", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, 2*domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrConflict)

		// The rejected grant refunds its fee: the company account holds
		// exactly one, and the admin count reflects one grant.
		assert.Equal(t, uint64(domain.AdminGrantFee), f.ledger.Balance(testAuthority))
		assert.Equal(t, uint64(domain.AdminGrantFee), f.ledger.Balance(f.company.Key.Account()))

		c, err := f.companies.Get(context.Background(), f.company.Key)
		require.NoError(t, err)
		assert.Equal(t, uint16(1), c.AdminCount)
	})

	t.Run("regrant_after_revoke", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, 2*domain.AdminGrantFee)

		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)
		_, err = f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		role, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)
		assert.False(t, role.Revoked)

		_, err = f.svc.Active(context.Background(), f.company.Key, testRecipient)
		require.NoError(t, err)
	})

	t.Run("unknown_company", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Grant(context.Background(), testAuthority, domain.CompanyKey(99), testRecipient)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	t.Run("authority_revokes", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)
		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		role, err := f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		assert.True(t, role.Revoked)
		require.NotNil(t, role.RevokedAt)
		assert.Equal(t, testNow, *role.RevokedAt)
		require.NotNil(t, role.RevokedBy)
		assert.Equal(t, testAuthority, *role.RevokedBy)

		c, err := f.companies.Get(context.Background(), f.company.Key)
		require.NoError(t, err)
		assert.Equal(t, uint16(0), c.AdminCount)
	})

	t.Run("admin_cannot_revoke", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, 2*domain.AdminGrantFee)
		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testAdmin)
		require.NoError(t, err)
		_, err = f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		// Admins may grant but only the authority may revoke.
		_, err = f.svc.Revoke(context.Background(), testAdmin, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("revoke_twice", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)
		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrAlreadyRevoked)
	})

	t.Run("no_role_to_revoke", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestActive(t *testing.T) {
	t.Parallel()

	t.Run("never_granted", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.svc.Active(context.Background(), f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("granted_then_revoked", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ledger.Credit(testAuthority, domain.AdminGrantFee)
		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Active(context.Background(), f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Revoke(context.Background(), testAuthority, f.company.Key, testRecipient)
		require.NoError(t, err)

		_, err = f.svc.Active(context.Background(), f.company.Key, testRecipient)
		require.ErrorIs(t, err, domain.ErrRoleRevoked)
	})
}

func TestListByCompany(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ledger.Credit(testAuthority, 3*domain.AdminGrantFee)

	for _, subject := range []domain.Identity{{10}, {11}, {12}} {
		_, err := f.svc.Grant(context.Background(), testAuthority, f.company.Key, subject)
		require.NoError(t, err)
	}

	all, err := f.svc.ListByCompany(context.Background(), f.company.Key, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := f.svc.ListByCompany(context.Background(), f.company.Key, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
