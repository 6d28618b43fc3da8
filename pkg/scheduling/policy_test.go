package scheduling

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecideCleanup(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	cooldown := 5 * time.Minute

	tests := []struct {
		name     string
		last     time.Time
		wantRun  bool
		wantNext time.Time
	}{
		{name: "never ran", wantRun: true, wantNext: now.Add(cooldown)},
		{name: "inside cooldown", last: now.Add(-2 * time.Minute), wantRun: false, wantNext: now.Add(3 * time.Minute)},
		{name: "cooldown elapsed exactly", last: now.Add(-cooldown), wantRun: true, wantNext: now.Add(cooldown)},
		{name: "long ago", last: now.Add(-time.Hour), wantRun: true, wantNext: now.Add(cooldown)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideCleanup(tt.last, now, cooldown)
			assert.Equal(t, tt.wantRun, got.ShouldRun)
			assert.Equal(t, tt.wantNext, got.NextEligibleAt)
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	conflict := fmt.Errorf("update booking b1: %w", ErrConflict)

	assert.True(t, p.ShouldRetry(conflict, 1))
	assert.True(t, p.ShouldRetry(conflict, 2))
	assert.False(t, p.ShouldRetry(conflict, 3))
	assert.False(t, p.ShouldRetry(errors.New("boom"), 1))
	assert.False(t, p.ShouldRetry(nil, 1))

	assert.Equal(t, time.Duration(0), p.Backoff(0))
	assert.Equal(t, 100*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 400*time.Millisecond, p.Backoff(3))
	assert.Equal(t, 2*time.Second, p.Backoff(10))
}
