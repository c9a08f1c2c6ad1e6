package domain

import (
	"context"
	"time"
)

const (
	MaxMarketTitleLen = 64
	MaxMarketDescLen  = 128
	MinOutcomes       = uint8(2)
)

// Market is one prediction question under a company. State machine:
// Created(unresolved) -> Resolved(outcome). No other transitions.
type Market struct {
	Key            Key        `json:"key"`
	Company        Key        `json:"company"`
	MarketID       uint64     `json:"market_id"`
	Creator        Identity   `json:"creator"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolutionTime time.Time  `json:"resolution_time"`
	NumOutcomes    uint8      `json:"num_outcomes"`
	Resolved       bool       `json:"resolved"`
	WinningOutcome *uint8     `json:"winning_outcome,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy     *Identity  `json:"resolved_by,omitempty"`

	// TotalVolume is intentionally never written on the bet hot path; a
	// running total on this record would serialize concurrent placements.
	// Use BetRepository.SumVolume for an out-of-band aggregate.
	TotalVolume uint64 `json:"total_volume"`
}

type MarketRepository interface {
	Create(ctx context.Context, m *Market) error
	Get(ctx context.Context, key Key) (*Market, error)
	Update(ctx context.Context, m *Market) error
	ListByCompany(ctx context.Context, company Key, limit, offset int) ([]*Market, error)
}
