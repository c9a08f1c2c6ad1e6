package v1

import (
	"context"
	"time"

	"github.com/truthprism/prism/internal/betting"
	"github.com/truthprism/prism/internal/domain"
)

// CompanyService abstracts company registry operations for handler testing.
// *company.Service satisfies this interface.
type CompanyService interface {
	Register(ctx context.Context, authority domain.Identity, companyID uint64, name string, root domain.Digest) (*domain.Company, error)
	RotateRoot(ctx context.Context, caller domain.Identity, companyKey domain.Key, newRoot domain.Digest) (*domain.Company, error)
	TogglePause(ctx context.Context, caller domain.Identity, companyKey domain.Key) (*domain.Company, error)
	Get(ctx context.Context, key domain.Key) (*domain.Company, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Company, error)
}

// RoleService abstracts admin-role operations for handler testing.
// *roles.Service satisfies this interface.
type RoleService interface {
	Grant(ctx context.Context, granter domain.Identity, companyKey domain.Key, recipient domain.Identity) (*domain.AdminRole, error)
	Revoke(ctx context.Context, revoker domain.Identity, companyKey domain.Key, subject domain.Identity) (*domain.AdminRole, error)
	ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.AdminRole, error)
}

// MarketService abstracts market lifecycle operations for handler testing.
// *market.Service satisfies this interface.
type MarketService interface {
	Create(ctx context.Context, admin domain.Identity, companyKey domain.Key, marketID uint64, title, description string, resolutionTime time.Time, numOutcomes uint8) (*domain.Market, error)
	Resolve(ctx context.Context, admin domain.Identity, marketKey domain.Key, winningOutcome uint8) (*domain.Market, error)
	Get(ctx context.Context, key domain.Key) (*domain.Market, error)
	ListByCompany(ctx context.Context, companyKey domain.Key, limit, offset int) ([]*domain.Market, error)
}

// BettingService abstracts bet placement and queries for handler testing.
// *betting.Service satisfies this interface.
type BettingService interface {
	Place(ctx context.Context, bettor domain.Identity, marketKey domain.Key, amount uint64, outcome uint8, cred betting.Credential) (*domain.Bet, error)
	Get(ctx context.Context, key domain.Key) (*domain.Bet, error)
	ListByMarket(ctx context.Context, marketKey domain.Key, limit, offset int) ([]*domain.Bet, error)
	Volume(ctx context.Context, marketKey domain.Key) (uint64, error)
}

// PayoutService abstracts winnings settlement for handler testing.
// *payout.Service satisfies this interface.
type PayoutService interface {
	Claim(ctx context.Context, caller domain.Identity, marketKey domain.Key) (uint64, error)
}

// Authenticator abstracts challenge-signature authentication for handler
// testing. *auth.Service satisfies this interface.
type Authenticator interface {
	Authenticate(identity domain.Identity, unixTS int64, signature []byte) (string, error)
}
