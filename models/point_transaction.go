package models

import "time"

// Transaction types. The award flow only emits "earn" and "bonus"; the rest
// exist for manual ledger adjustments.
const (
	TxTypeEarn       = "earn"
	TxTypeSpend      = "spend"
	TxTypeBonus      = "bonus"
	TxTypePenalty    = "penalty"
	TxTypeAdjustment = "adjustment"
)

// Point sources.
const (
	SourceStoryRead           = "story_read"
	SourceAssignmentCompleted = "assignment_completed"
	SourceBadgeEarned         = "badge_earned"
	SourceStreakBonus         = "streak_bonus"
	SourceAchievement         = "achievement"
	SourceManual              = "manual"
	SourceDailyLogin          = "daily_login"
)

// ValidSource reports whether s is one of the enumerated point sources.
func ValidSource(s string) bool {
	switch s {
	case SourceStoryRead, SourceAssignmentCompleted, SourceBadgeEarned,
		SourceStreakBonus, SourceAchievement, SourceManual, SourceDailyLogin:
		return true
	}
	return false
}

// RefModel tags which domain entity a transaction points back at.
type RefModel string

const (
	RefStory       RefModel = "Story"
	RefAssignment  RefModel = "Assignment"
	RefBadge       RefModel = "Badge"
	RefAchievement RefModel = "Achievement"
	RefNone        RefModel = "None"
)

// TransactionRef loosely couples a ledger entry to its originating entity.
// No referential integrity is enforced.
type TransactionRef struct {
	Model RefModel `json:"model"`
	ID    string   `json:"id,omitempty"`
}

func StoryRef(id string) TransactionRef       { return TransactionRef{Model: RefStory, ID: id} }
func AssignmentRef(id string) TransactionRef  { return TransactionRef{Model: RefAssignment, ID: id} }
func BadgeRef(id string) TransactionRef       { return TransactionRef{Model: RefBadge, ID: id} }
func AchievementRef(id string) TransactionRef { return TransactionRef{Model: RefAchievement, ID: id} }
func NoRef() TransactionRef                   { return TransactionRef{Model: RefNone} }

// PointTransaction is an immutable, append-only ledger entry. For every record
// BalanceAfter-BalanceBefore == Points.
type PointTransaction struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index:idx_tx_user_created;not null" json:"user"`
	ChildID     string         `gorm:"index;default:''" json:"child,omitempty"`
	Points      int            `gorm:"not null" json:"points"`
	Type        string         `gorm:"type:varchar(16);not null" json:"type"`
	Source      string         `gorm:"type:varchar(32);not null" json:"source"`
	Description string         `gorm:"type:text" json:"description"`
	Reference   TransactionRef `gorm:"serializer:json" json:"reference"`

	BalanceBefore int `gorm:"not null" json:"balanceBefore"`
	BalanceAfter  int `gorm:"not null" json:"balanceAfter"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index:idx_tx_user_created,sort:desc"`
}
