package models

// CriteriaType is the closed set of automatic badge rules. Adding a kind means
// adding a case to BadgeCriteria.Met; CriteriaCustom is never auto-awarded.
type CriteriaType string

const (
	CriteriaStoryCount           CriteriaType = "story_count"
	CriteriaDaysStreak           CriteriaType = "days_streak"
	CriteriaTotalPoints          CriteriaType = "total_points"
	CriteriaAssignmentsCompleted CriteriaType = "assignments_completed"
	CriteriaCustom               CriteriaType = "custom"
)

// Badge tiers, ordering informational only.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
	TierDiamond  = "diamond"
)

// BadgeCriteria gates automatic awards on a progress snapshot.
type BadgeCriteria struct {
	Type      CriteriaType `json:"type"`
	Threshold int          `json:"threshold"`
}

// Met evaluates the criteria against a progress snapshot. Custom (and any
// unknown) criteria never match automatically.
func (c BadgeCriteria) Met(p *UserProgress) bool {
	switch c.Type {
	case CriteriaStoryCount:
		return p.Stats.StoriesRead >= c.Threshold
	case CriteriaDaysStreak:
		return p.CurrentStreak >= c.Threshold
	case CriteriaTotalPoints:
		return p.TotalPoints >= c.Threshold
	case CriteriaAssignmentsCompleted:
		return p.Stats.AssignmentsCompleted >= c.Threshold
	case CriteriaCustom:
		return false
	}
	return false
}

// Badge is an admin-managed catalog entry, awarded to a progress record at
// most once.
type Badge struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"uniqueIndex;not null" json:"name"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Icon        string        `gorm:"default:'🏆'" json:"icon"`
	Category    string        `gorm:"type:varchar(16);default:'achievement'" json:"category"`
	Tier        string        `gorm:"type:varchar(16);default:'bronze'" json:"tier"`
	Points      int           `gorm:"default:10" json:"points"`
	Criteria    BadgeCriteria `gorm:"serializer:json" json:"criteria"`
	IsActive    bool          `gorm:"default:true" json:"isActive"`
	Rarity      string        `gorm:"type:varchar(16);default:'common'" json:"rarity"`
	Timestamps
}
