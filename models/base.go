package models

import (
	"time"
)

// Timestamps adds GORM auto-times using the same field names the mobile
// clients already consume (createdAt/updatedAt).
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
