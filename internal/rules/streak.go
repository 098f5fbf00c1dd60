package rules

import (
	"time"

	"github.com/yugash007/nexel-api/internal/models"
)

// StreakResult is the outcome of a login-streak transition.
type StreakResult struct {
	Streak int
	// Earned lists badges newly awarded by this transition. Already-held
	// badges never reappear here and are never revoked.
	Earned []models.Badge
}

// AdvanceStreak runs the login-streak state machine. Days are compared at
// calendar granularity in UTC: a first-ever login starts the streak at 1, a
// next-day login increments it, a gap resets it to 1, and a same-day login
// leaves it unchanged. Badge thresholds are 3 and 7 consecutive days.
func AdvanceStreak(lastLogin *time.Time, streak int, held []models.Badge, now time.Time) StreakResult {
	newStreak := 1
	if lastLogin != nil {
		switch days := daysBetween(*lastLogin, now); {
		case days <= 0:
			// Same day, or clock skew put lastLogin ahead of now.
			newStreak = streak
		case days == 1:
			newStreak = streak + 1
		default:
			newStreak = 1
		}
	}

	heldIDs := make(map[string]struct{}, len(held))
	for _, b := range held {
		heldIDs[b.ID] = struct{}{}
	}

	var earned []models.Badge
	for _, badge := range models.BadgeCatalog() {
		if _, ok := heldIDs[badge.ID]; ok {
			continue
		}
		switch badge.ID {
		case models.BadgeStreak3:
			if newStreak >= 3 {
				earned = append(earned, badge)
			}
		case models.BadgeStreak7:
			if newStreak >= 7 {
				earned = append(earned, badge)
			}
		}
	}

	return StreakResult{Streak: newStreak, Earned: earned}
}

// daysBetween returns the number of UTC calendar days from a to b,
// discarding time of day.
func daysBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	start := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
