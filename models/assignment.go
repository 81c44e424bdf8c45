package models

import "time"

// Assignment statuses
const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
)

// Assignment links a story to a child. The (child, story) pair is unique so
// the same story cannot be assigned to the same child twice.
type Assignment struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ChildID     string     `gorm:"not null;uniqueIndex:idx_assignment_child_story" json:"child"`
	StoryID     string     `gorm:"not null;uniqueIndex:idx_assignment_child_story" json:"story"`
	AssignedBy  string     `gorm:"not null" json:"assignedBy"`
	FamilyID    string     `gorm:"index;not null" json:"family"`
	Status      string     `gorm:"type:varchar(16);default:'assigned'" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       string     `gorm:"size:300" json:"notes"`
	Timestamps

	Child *Child `gorm:"foreignKey:ChildID" json:"childDetail,omitempty"`
	Story *Story `gorm:"foreignKey:StoryID" json:"storyDetail,omitempty"`
}
