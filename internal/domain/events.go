package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies one successful state-changing operation.
type EventKind string

const (
	EventCompanyRegistered EventKind = "company_registered"
	EventRootRotated       EventKind = "employee_root_rotated"
	EventPauseToggled      EventKind = "company_pause_toggled"
	EventAdminGranted      EventKind = "admin_role_granted"
	EventAdminRevoked      EventKind = "admin_role_revoked"
	EventMarketCreated     EventKind = "market_created"
	EventMarketResolved    EventKind = "market_resolved"
	EventBetPlaced         EventKind = "bet_placed"
	EventWinningsClaimed   EventKind = "winnings_claimed"
)

// Event is the structured notification emitted once per successful mutation.
// Fields carry the operation's key identifiers and outcome. Events are a
// one-way, best-effort channel; nothing inside the core consumes them.
type Event struct {
	ID      uuid.UUID      `json:"id"`
	Kind    EventKind      `json:"kind"`
	Company Key            `json:"company"`
	At      time.Time      `json:"at"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NewEvent stamps a fresh event.
func NewEvent(kind EventKind, company Key, at time.Time, fields map[string]any) Event {
	return Event{
		ID:      uuid.New(),
		Kind:    kind,
		Company: company,
		At:      at,
		Fields:  fields,
	}
}

// EventEmitter publishes events. Implementations must not fail the calling
// operation; delivery problems are theirs to log and swallow.
type EventEmitter interface {
	Emit(ctx context.Context, ev Event)
}
