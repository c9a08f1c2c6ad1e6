package domain

import "context"

// Ledger moves a fixed quantity of value between accounts. Used for the
// company registration fee and the admin grant fee; a transfer failure
// aborts the whole operation. Value custody stays outside the core.
type Ledger interface {
	Transfer(ctx context.Context, from, to Identity, amount uint64) error
}
