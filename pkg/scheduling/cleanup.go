package scheduling

import "time"

type CleanupDecision struct {
	ShouldRun      bool
	NextEligibleAt time.Time
}

// DecideCleanup reports whether an expired-booking sweep may run now. A zero
// lastCleanupAt means no sweep has run yet.
func DecideCleanup(lastCleanupAt, now time.Time, cooldown time.Duration) CleanupDecision {
	if lastCleanupAt.IsZero() || cooldown <= 0 {
		return CleanupDecision{ShouldRun: true, NextEligibleAt: now.Add(cooldown)}
	}
	next := lastCleanupAt.Add(cooldown)
	if now.Before(next) {
		return CleanupDecision{ShouldRun: false, NextEligibleAt: next}
	}
	return CleanupDecision{ShouldRun: true, NextEligibleAt: now.Add(cooldown)}
}
