package services

import (
	"math"
	"time"

	"nestory-backend/models"
)

// CalculateLevel derives a level from a cumulative point total:
// level = floor(sqrt(totalPoints / 100)) + 1, so 0pts -> 1, 100 -> 2, 400 -> 3.
// Monotonic non-decreasing in totalPoints.
func CalculateLevel(totalPoints int) int {
	if totalPoints <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalPoints)/100))) + 1
}

// UpdateStreak folds one point-earning event at now into the streak counters.
// Same-day activity leaves the counters alone, a one-day gap extends the
// streak, anything longer resets it to 1. LastActivityDate always advances,
// including on the same-day branch.
//
// This runs on every point award, not just reading events, so manual awards
// advance the streak clock too.
func UpdateStreak(p *models.UserProgress, now time.Time) {
	if p.LastActivityDate == nil {
		p.CurrentStreak = 1
		if p.LongestStreak < 1 {
			p.LongestStreak = 1
		}
	} else {
		daysDiff := int(math.Floor(now.Sub(*p.LastActivityDate).Hours() / 24))
		switch {
		case daysDiff == 1:
			p.CurrentStreak++
			if p.CurrentStreak > p.LongestStreak {
				p.LongestStreak = p.CurrentStreak
			}
		case daysDiff > 1:
			p.CurrentStreak = 1
		}
	}

	t := now
	p.LastActivityDate = &t
}
