package scheduling

import (
	"errors"
	"time"
)

// RetryPolicy describes how a caller retries operations that failed with ErrConflict.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2,
	}
}

// Backoff returns the wait before the given retry, counting from 1.
func (p RetryPolicy) Backoff(retry int) time.Duration {
	if retry < 1 || p.InitialBackoff <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialBackoff)
	for i := 1; i < retry; i++ {
		d *= mult
		if p.MaxBackoff > 0 && d >= float64(p.MaxBackoff) {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && time.Duration(d) > p.MaxBackoff {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// ShouldRetry reports whether attempt (1-based) may be followed by another.
// Only conflicts are retried.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || !errors.Is(err, ErrConflict) {
		return false
	}
	return attempt < p.MaxAttempts
}
