package domain

import (
	"context"
	"time"
)

const (
	RateLimitWindow     = time.Hour
	MaxMarketsPerWindow = uint16(50)
)

// RateLimitWindowState is the fixed-window counter for one (company, admin)
// pair. Created lazily on first gated action. Inside a live window the count
// increments up to the cap; an expired window resets wholesale to 1.
type RateLimitWindowState struct {
	Key         Key       `json:"key"` // RateLimitKey(company, admin)
	Company     Key       `json:"company"`
	Admin       Identity  `json:"admin"`
	WindowStart time.Time `json:"window_start"`
	Actions     uint16    `json:"actions_count"`
}

type RateLimitRepository interface {
	// Get returns the window for a key, or ErrNotFound before first use.
	Get(ctx context.Context, key Key) (*RateLimitWindowState, error)

	// Put upserts the window record.
	Put(ctx context.Context, w *RateLimitWindowState) error
}
