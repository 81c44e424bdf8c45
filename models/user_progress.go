package models

import "time"

// EarnedBadge is one entry of UserProgress.Badges. Badge holds the catalog id;
// handlers expand it with catalog detail when responding.
type EarnedBadge struct {
	Badge    string    `json:"badge"`
	EarnedAt time.Time `json:"earnedAt"`
}

// AchievementEntry tracks incremental progress toward one achievement.
// Completed flips false->true exactly once; Progress only increases.
type AchievementEntry struct {
	Achievement string     `json:"achievement"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ProgressStats are activity counters incremented only by the award flow.
type ProgressStats struct {
	StoriesRead          int `json:"storiesRead"`
	AssignmentsCompleted int `json:"assignmentsCompleted"`
	TotalReadingTime     int `json:"totalReadingTime"` // minutes
}

// UserProgress is the per-(user, optional child) gamification aggregate.
// ChildID is "" for account-level progress; the composite unique index makes
// find-or-create an idempotent upsert rather than a read-then-create race.
type UserProgress struct {
	ID      string `gorm:"primaryKey" json:"id"`
	UserID  string `gorm:"not null;uniqueIndex:idx_progress_owner" json:"user"`
	ChildID string `gorm:"default:'';uniqueIndex:idx_progress_owner" json:"child,omitempty"`

	TotalPoints      int        `gorm:"default:0" json:"totalPoints"`
	Level            int        `gorm:"default:1" json:"level"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak    int        `gorm:"default:0" json:"longestStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate"`

	Badges       []EarnedBadge      `gorm:"serializer:json" json:"badges"`
	Achievements []AchievementEntry `gorm:"serializer:json" json:"achievements"`
	Stats        ProgressStats      `gorm:"serializer:json" json:"stats"`

	Timestamps
}

// HasBadge reports whether the badge id is already in the earned list.
func (p *UserProgress) HasBadge(badgeID string) bool {
	for _, b := range p.Badges {
		if b.Badge == badgeID {
			return true
		}
	}
	return false
}

// AchievementIndex returns the position of the entry for achievementID,
// or -1 when the achievement has never been touched.
func (p *UserProgress) AchievementIndex(achievementID string) int {
	for i, a := range p.Achievements {
		if a.Achievement == achievementID {
			return i
		}
	}
	return -1
}
