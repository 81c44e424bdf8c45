package models

// Child is a reader profile inside a family.
type Child struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Age      int    `gorm:"not null" json:"age"`
	Avatar   string `json:"avatar"`
	FamilyID string `gorm:"index;not null" json:"family"`
	ParentID string `gorm:"index;not null" json:"parent"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
	Timestamps
}
