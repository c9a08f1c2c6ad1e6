package v1

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/truthprism/prism/internal/domain"
)

// mapDomainError converts a service error into the matching HTTP problem.
// Unrecognized errors become 500s with the original attached as detail.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidOutcome),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrProofRequired),
		errors.Is(err, domain.ErrProofVersionRequired),
		errors.Is(err, domain.ErrProofTooDeep):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrRoleRevoked):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, domain.ErrStaleProof),
		errors.Is(err, domain.ErrCompanyPaused),
		errors.Is(err, domain.ErrAlreadyRevoked),
		errors.Is(err, domain.ErrTooManyAdmins),
		errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrNotResolved),
		errors.Is(err, domain.ErrTooEarlyToResolve),
		errors.Is(err, domain.ErrMarketResolved),
		errors.Is(err, domain.ErrBettingClosed),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrLosingBet):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		return huma.Error429TooManyRequests(err.Error())
	case errors.Is(err, domain.ErrPayment):
		return huma.NewError(http.StatusPaymentRequired, err.Error())
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}
