package domain

import "time"

// Clock supplies the wall-clock reading for time-bound behavior (betting
// close, resolution eligibility, rate-limit windows). Each operation reads
// it once; the core owns no timers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
