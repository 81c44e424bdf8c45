package models

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a parent account. Children are profiles under a Family, not
// accounts of their own.
type User struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	Password       string `gorm:"not null" json:"-"`
	Role           string `gorm:"type:varchar(16);default:'user'" json:"role"`
	ProfilePicture string `json:"profilePicture"`
	Timestamps
}
