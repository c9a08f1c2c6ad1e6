package domain

import "errors"

// Sentinel errors for the domain layer. Every operation fails with one of
// these (possibly wrapped) so callers can tell "fix your input" from "you
// lack permission" from "try again later".
var (
	ErrNotFound = errors.New("domain: not found")
	ErrConflict = errors.New("domain: conflict")

	// Validation.
	ErrValidation = errors.New("domain: validation failed")

	// Authorization.
	ErrUnauthorized   = errors.New("domain: unauthorized")
	ErrRoleRevoked    = errors.New("domain: admin role revoked")
	ErrAlreadyRevoked = errors.New("domain: role already revoked")
	ErrTooManyAdmins  = errors.New("domain: too many admins")

	// Lifecycle state.
	ErrCompanyPaused     = errors.New("domain: company paused")
	ErrAlreadyResolved   = errors.New("domain: market already resolved")
	ErrNotResolved       = errors.New("domain: market not resolved")
	ErrTooEarlyToResolve = errors.New("domain: too early to resolve")
	ErrMarketResolved    = errors.New("domain: market resolved, betting over")
	ErrBettingClosed     = errors.New("domain: betting period closed")
	ErrInvalidOutcome    = errors.New("domain: invalid outcome")
	ErrInvalidAmount     = errors.New("domain: invalid amount")
	ErrAlreadyClaimed    = errors.New("domain: bet already claimed")
	ErrLosingBet         = errors.New("domain: losing bet")

	// Membership proofs.
	ErrProofRequired        = errors.New("domain: membership proof required")
	ErrProofVersionRequired = errors.New("domain: membership proof version required")
	ErrProofTooDeep         = errors.New("domain: membership proof too deep")
	ErrStaleProof           = errors.New("domain: membership proof stale")

	// Rate limiting.
	ErrRateLimited = errors.New("domain: rate limit exceeded")

	// Checked arithmetic on bounded counters.
	ErrOverflow  = errors.New("domain: arithmetic overflow")
	ErrUnderflow = errors.New("domain: arithmetic underflow")

	// Value transfer.
	ErrPayment = errors.New("domain: payment failed")
)
