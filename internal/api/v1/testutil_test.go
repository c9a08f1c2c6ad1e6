package v1_test

import (
	"context"
	"time"

	"github.com/truthprism/prism/internal/betting"
	"github.com/truthprism/prism/internal/domain"
	"github.com/truthprism/prism/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject caller identity for DoCtx
// ---------------------------------------------------------------------------

func identityCtx(identity domain.Identity) context.Context {
	return middleware.WithIdentity(context.Background(), identity)
}

func testIdentity(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

// ---------------------------------------------------------------------------
// Mock CompanyService
// ---------------------------------------------------------------------------

type mockCompanySvc struct {
	registerFunc    func(ctx context.Context, authority domain.Identity, companyID uint64, name string, root domain.Digest) (*domain.Company, error)
	rotateRootFunc  func(ctx context.Context, caller domain.Identity, companyKey domain.Key, newRoot domain.Digest) (*domain.Company, error)
	togglePauseFunc func(ctx context.Context, caller domain.Identity, companyKey domain.Key) (*domain.Company, error)
	getFunc         func(ctx context.Context, key domain.Key) (*domain.Company, error)
	listFunc        func(ctx context.Context, limit, offset int) ([]*domain.Company, error)
}

func (m *mockCompanySvc) Register(ctx context.Context, authority domain.Identity, companyID uint64, name string, root domain.Digest) (*domain.Company, error) {
	return m.registerFunc(ctx, authority, companyID, name, root)
}

func (m *mockCompanySvc) RotateRoot(ctx context.Context, caller domain.Identity, companyKey domain.Key, newRoot domain.Digest) (*domain.Company, error) {
	return m.rotateRootFunc(ctx, caller, companyKey, newRoot)
}

func (m *mockCompanySvc) TogglePause(ctx context.Context, caller domain.Identity, companyKey domain.Key) (*domain.Company, error) {
	return m.togglePauseFunc(ctx, caller, companyKey)
}

func (m *mockCompanySvc) Get(ctx context.Context, key domain.Key) (*domain.Company, error) {
	return m.getFunc(ctx, key)
}

func (m *mockCompanySvc) List(ctx context.Context, limit, offset int) ([]*domain.Company, error) {
	return m.listFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock RoleService
// ---------------------------------------------------------------------------

type mockRoleSvc struct {
	grantFunc  func(ctx context.Context, granter domain.Identity, companyKey domain.Key, recipient domain.Identity) (*domain.AdminRole, error)
	revokeFunc func(ctx context.Context, revoker domain.Identity, companyKey domain.Key, subject domain.Identity) (*domain.AdminRole, error)
	listFunc   func(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.AdminRole, error)
}

func (m *mockRoleSvc) Grant(ctx context.Context, granter domain.Identity, companyKey domain.Key, recipient domain.Identity) (*domain.AdminRole, error) {
	return m.grantFunc(ctx, granter, companyKey, recipient)
}

func (m *mockRoleSvc) Revoke(ctx context.Context, revoker domain.Identity, companyKey domain.Key, subject domain.Identity) (*domain.AdminRole, error) {
	return m.revokeFunc(ctx, revoker, companyKey, subject)
}

func (m *mockRoleSvc) ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.AdminRole, error) {
	return m.listFunc(ctx, companyKey, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock MarketService
// ---------------------------------------------------------------------------

type mockMarketSvc struct {
	createFunc  func(ctx context.Context, admin domain.Identity, companyKey domain.Key, marketID uint64, title, description string, resolutionTime time.Time, numOutcomes uint8) (*domain.Market, error)
	resolveFunc func(ctx context.Context, admin domain.Identity, marketKey domain.Key, winningOutcome uint8) (*domain.Market, error)
	getFunc     func(ctx context.Context, key domain.Key) (*domain.Market, error)
	listFunc    func(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.Market, error)
}

func (m *mockMarketSvc) Create(ctx context.Context, admin domain.Identity, companyKey domain.Key, marketID uint64, title, description string, resolutionTime time.Time, numOutcomes uint8) (*domain.Market, error) {
	return m.createFunc(ctx, admin, companyKey, marketID, title, description, resolutionTime, numOutcomes)
}

func (m *mockMarketSvc) Resolve(ctx context.Context, admin domain.Identity, marketKey domain.Key, winningOutcome uint8) (*domain.Market, error) {
	return m.resolveFunc(ctx, admin, marketKey, winningOutcome)
}

func (m *mockMarketSvc) Get(ctx context.Context, key domain.Key) (*domain.Market, error) {
	return m.getFunc(ctx, key)
}

func (m *mockMarketSvc) ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.Market, error) {
	return m.listFunc(ctx, companyKey, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock BettingService
// ---------------------------------------------------------------------------

type mockBettingSvc struct {
	placeFunc  func(ctx context.Context, bettor domain.Identity, marketKey domain.Key, amount uint64, outcome uint8, cred betting.Credential) (*domain.Bet, error)
	getFunc    func(ctx context.Context, key domain.Key) (*domain.Bet, error)
	listFunc   func(ctx context.Context, marketKey domain.Key, limit, offset int) ([]*domain.Bet, error)
	volumeFunc func(ctx context.Context, marketKey domain.Key) (uint64, error)
}

func (m *mockBettingSvc) Place(ctx context.Context, bettor domain.Identity, marketKey domain.Key, amount uint64, outcome uint8, cred betting.Credential) (*domain.Bet, error) {
	return m.placeFunc(ctx, bettor, marketKey, amount, outcome, cred)
}

func (m *mockBettingSvc) Get(ctx context.Context, key domain.Key) (*domain.Bet, error) {
	return m.getFunc(ctx, key)
}

func (m *mockBettingSvc) ListByMarket(ctx context.Context, marketKey domain.Key, limit, offset int) ([]*domain.Bet, error) {
	return m.listFunc(ctx, marketKey, limit, offset)
}

func (m *mockBettingSvc) Volume(ctx context.Context, marketKey domain.Key) (uint64, error) {
	return m.volumeFunc(ctx, marketKey)
}

// ---------------------------------------------------------------------------
// Mock PayoutService
// ---------------------------------------------------------------------------

type mockPayoutSvc struct {
	claimFunc func(ctx context.Context, caller domain.Identity, marketKey domain.Key) (uint64, error)
}

func (m *mockPayoutSvc) Claim(ctx context.Context, caller domain.Identity, marketKey domain.Key) (uint64, error) {
	return m.claimFunc(ctx, caller, marketKey)
}

// ---------------------------------------------------------------------------
// Mock Authenticator
// ---------------------------------------------------------------------------

type mockAuthenticator struct {
	authenticateFunc func(identity domain.Identity, unixTS int64, signature []byte) (string, error)
}

func (m *mockAuthenticator) Authenticate(identity domain.Identity, unixTS int64, signature []byte) (string, error) {
	return m.authenticateFunc(identity, unixTS, signature)
}
