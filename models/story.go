package models

// Story sources
const (
	StorySourceInternal = "internal"
	StorySourceGoogle   = "google"
)

// Age groups map to reader age ranges (see services.AgeRangeForGroup).
const (
	AgeGroupToddler     = "toddler"
	AgeGroupEarlyReader = "early-reader"
	AgeGroupMiddleGrade = "middle-grade"
	AgeGroupYoungAdult  = "young-adult"
)

// Story is a library entry, either created in-house or imported from
// Google Books.
type Story struct {
	ID           string   `gorm:"primaryKey" json:"id"`
	Title        string   `gorm:"not null" json:"title"`
	Author       string   `gorm:"not null" json:"author"`
	Description  string   `gorm:"type:text" json:"description"`
	Slug         string   `gorm:"index" json:"slug"`
	AgeGroup     string   `gorm:"type:varchar(16);not null" json:"ageGroup"`
	Genres       []string `gorm:"serializer:json" json:"genres"`
	ReadingLevel string   `gorm:"type:varchar(16);default:'beginner'" json:"readingLevel"`
	CoverImage   string   `gorm:"type:text" json:"coverImage"`
	PageCount    int      `json:"pageCount"`

	// Google Books integration fields
	Source       string `gorm:"type:varchar(16);default:'internal'" json:"source"`
	GoogleBookID string `gorm:"index" json:"googleBookId"`
	PreviewLink  string `gorm:"type:text" json:"previewLink"`

	CreatedBy string `gorm:"index;not null" json:"createdBy"`
	Timestamps
}
