package models

import "time"

// ReadingSession tracks one sitting with one book. Progress accumulates via
// /api/sessions/update until pagesRead reaches totalPages.
type ReadingSession struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ChildID       string    `gorm:"index;not null" json:"childId"`
	BookID        string    `gorm:"index;not null" json:"bookId"`
	PagesRead     int       `gorm:"default:0" json:"pagesRead"`
	TimeSpent     int       `gorm:"default:0" json:"timeSpent"` // minutes
	TotalPages    int       `gorm:"not null" json:"totalPages"`
	Completed     bool      `gorm:"default:false" json:"completed"`
	StartedAt     time.Time `json:"startedAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	Timestamps
}
