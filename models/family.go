package models

// Family is the group a parent manages. One family per parent account.
type Family struct {
	ID         string `gorm:"primaryKey" json:"id"`
	FamilyName string `gorm:"size:100;not null" json:"familyName"`
	ParentID   string `gorm:"uniqueIndex;not null" json:"parent"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
	Timestamps

	Children []Child `gorm:"foreignKey:FamilyID" json:"children,omitempty"`
}
