package models

// Achievement types. Declared on the catalog entry but not differentially
// enforced: completion is a one-way latch for all three kinds.
const (
	AchievementOneTime     = "one_time"
	AchievementRepeatable  = "repeatable"
	AchievementProgressive = "progressive"
)

// AchievementReward is granted once, when progress first crosses targetValue.
// BadgeID, when set, is pushed to the earned list without awarding that
// badge's own points.
type AchievementReward struct {
	Points  int    `json:"points"`
	BadgeID string `json:"badge,omitempty"`
}

// Achievement is a catalog-defined, incrementally-tracked goal.
type Achievement struct {
	ID          string            `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"uniqueIndex;not null" json:"name"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Icon        string            `gorm:"default:'⭐'" json:"icon"`
	Category    string            `gorm:"type:varchar(16);default:'milestone'" json:"category"`
	Type        string            `gorm:"type:varchar(16);default:'one_time'" json:"type"`
	TargetValue int               `gorm:"not null" json:"targetValue"`
	Reward      AchievementReward `gorm:"serializer:json" json:"reward"`
	IsActive    bool              `gorm:"default:true" json:"isActive"`
	Difficulty  string            `gorm:"type:varchar(16);default:'medium'" json:"difficulty"`
	Timestamps
}
