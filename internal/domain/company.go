package domain

import (
	"context"
	"time"
)

// Platform limits and fees. Fee amounts are in base units (1e9 = 1 whole
// unit), matching the platform's settlement denomination.
const (
	MaxCompanyNameLen   = 32
	MaxAdminsPerCompany = uint16(100)

	CompanyRegistrationFee = uint64(100_000_000)
	AdminGrantFee          = uint64(5_000_000)
)

// Company is one tenant of the platform. Its authority registers it, rotates
// the employee membership root, and toggles the pause flag. AdminCount is a
// bounded counter maintained by grant/revoke; TotalMarkets by market creation.
type Company struct {
	Key         Key       `json:"key"`
	Authority   Identity  `json:"authority"`
	CompanyID   uint64    `json:"company_id"`
	Name        string    `json:"name"`
	AdminCount  uint16    `json:"admin_count"`
	RootDigest  Digest    `json:"employee_root"`
	RootVersion uint64    `json:"employee_root_version"`
	CreatedAt   time.Time `json:"created_at"`
	Paused      bool      `json:"paused"`

	// TotalMarkets is the lifetime count of markets created under this
	// company. Checked-add on every creation.
	TotalMarkets uint64 `json:"total_markets"`
}

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	Get(ctx context.Context, key Key) (*Company, error)
	Update(ctx context.Context, c *Company) error
	List(ctx context.Context, limit, offset int) ([]*Company, error)
}
