// Package ratelimit implements the fixed-window action cap per
// (company, admin) pair that gates market creation.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/truthprism/prism/internal/domain"
)

// Limiter counts gated actions inside hard, non-sliding windows. Bursts
// across a window boundary are an accepted characteristic of the algorithm.
type Limiter struct {
	repo   domain.RateLimitRepository
	window time.Duration
	cap    uint16
}

func New(repo domain.RateLimitRepository, window time.Duration, cap uint16) *Limiter {
	return &Limiter{repo: repo, window: window, cap: cap}
}

// NewDefault uses the platform window (1h) and cap (50).
func NewDefault(repo domain.RateLimitRepository) *Limiter {
	return New(repo, domain.RateLimitWindow, domain.MaxMarketsPerWindow)
}

// Allow records one action for (company, admin) at the supplied instant.
// Inside a live window the count must be below the cap; an expired window
// resets with this action as its first. Returns ErrRateLimited at the cap.
func (l *Limiter) Allow(ctx context.Context, company domain.Key, admin domain.Identity, now time.Time) error {
	key := domain.RateLimitKey(company, admin)

	w, err := l.repo.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		w = &domain.RateLimitWindowState{
			Key:         key,
			Company:     company,
			Admin:       admin,
			WindowStart: now,
			Actions:     0,
		}
	case err != nil:
		return fmt.Errorf("ratelimit.Allow: %w", err)
	}

	if now.Sub(w.WindowStart) < l.window {
		if w.Actions >= l.cap {
			return fmt.Errorf("ratelimit.Allow: %w", domain.ErrRateLimited)
		}
		w.Actions++
	} else {
		w.WindowStart = now
		w.Actions = 1
	}

	if err := l.repo.Put(ctx, w); err != nil {
		return fmt.Errorf("ratelimit.Allow: %w", err)
	}
	return nil
}
