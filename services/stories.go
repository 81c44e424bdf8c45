package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var titleCaser = cases.Title(language.English)

// AgeRange bounds the reader ages an age group targets.
type AgeRange struct {
	Min int
	Max int
}

// AgeRangeForGroup maps a story age group to its reader age range.
func AgeRangeForGroup(ageGroup string) (AgeRange, bool) {
	switch ageGroup {
	case models.AgeGroupToddler:
		return AgeRange{Min: 3, Max: 5}, true
	case models.AgeGroupEarlyReader:
		return AgeRange{Min: 6, Max: 8}, true
	case models.AgeGroupMiddleGrade:
		return AgeRange{Min: 9, Max: 12}, true
	case models.AgeGroupYoungAdult:
		return AgeRange{Min: 13, Max: 17}, true
	}
	return AgeRange{}, false
}

// StoryService owns the story library: in-house entries plus Google Books
// imports.
type StoryService struct {
	DB    *gorm.DB
	Books *GoogleBooksClient
}

func NewStoryService(db *gorm.DB, books *GoogleBooksClient) *StoryService {
	return &StoryService{DB: db, Books: books}
}

// StoryFilter carries the list-endpoint query parameters.
type StoryFilter struct {
	AgeGroup     string
	ReadingLevel string
	Genre        string
	Search       string
	Page         int
	Limit        int
}

// StoryPage is one page of library results.
type StoryPage struct {
	Stories []models.Story `json:"stories"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
}

// ListStories returns a filtered, paginated page of the library, newest
// first. Search matches title, author and description case-insensitively.
func (s *StoryService) ListStories(f StoryFilter) (*StoryPage, error) {
	page, limit, offset := utils.Paginate(f.Page, f.Limit)

	q := s.DB.Model(&models.Story{})
	if f.AgeGroup != "" {
		q = q.Where("age_group = ?", f.AgeGroup)
	}
	if f.ReadingLevel != "" {
		q = q.Where("reading_level = ?", f.ReadingLevel)
	}
	if f.Genre != "" {
		q = q.Where("genres LIKE ?", "%"+f.Genre+"%")
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", needle, needle, needle)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, utils.NewServerError("Error fetching stories", err)
	}

	var stories []models.Story
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&stories).Error; err != nil {
		return nil, utils.NewServerError("Error fetching stories", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &StoryPage{Stories: stories, Total: total, Page: page, Pages: pages}, nil
}

// GetStory loads one library entry.
func (s *StoryService) GetStory(id string) (*models.Story, error) {
	var story models.Story
	if err := s.DB.First(&story, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Story not found")
		}
		return nil, utils.NewServerError("Error fetching story", err)
	}
	return &story, nil
}

// CreateStory adds an in-house library entry.
func (s *StoryService) CreateStory(story *models.Story, createdBy string) error {
	if _, ok := AgeRangeForGroup(story.AgeGroup); !ok {
		return utils.NewValidationError("Invalid story ageGroup")
	}
	if len(story.Genres) == 0 {
		return utils.NewValidationError("At least one genre is required")
	}

	story.ID = uuid.NewString()
	story.Slug = slug.Make(story.Title)
	story.Source = models.StorySourceInternal
	story.CreatedBy = createdBy
	if story.ReadingLevel == "" {
		story.ReadingLevel = "beginner"
	}

	if err := s.DB.Create(story).Error; err != nil {
		return utils.NewServerError("Error creating story", err)
	}
	return nil
}

// UpdateStory applies partial updates to a library entry.
func (s *StoryService) UpdateStory(id string, updates map[string]interface{}) (*models.Story, error) {
	story, err := s.GetStory(id)
	if err != nil {
		return nil, err
	}

	if title, ok := updates["title"].(string); ok && title != "" {
		updates["slug"] = slug.Make(title)
	}
	if err := s.DB.Model(story).Updates(updates).Error; err != nil {
		return nil, utils.NewServerError("Error updating story", err)
	}
	return story, nil
}

// UploadCover stores a new cover image and records its public URL.
func (s *StoryService) UploadCover(id string, file *multipart.FileHeader) (*models.Story, error) {
	story, err := s.GetStory(id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%s/%s", story.ID, uuid.NewString())
	url, err := utils.UploadFile(file, key)
	if err != nil {
		return nil, utils.NewServerError("Error uploading cover image", err)
	}

	story.CoverImage = url
	if err := s.DB.Save(story).Error; err != nil {
		return nil, utils.NewServerError("Error updating story", err)
	}
	return story, nil
}

// DeleteStory removes a library entry.
func (s *StoryService) DeleteStory(id string) error {
	res := s.DB.Delete(&models.Story{}, "id = ?", id)
	if res.Error != nil {
		return utils.NewServerError("Error deleting story", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("Story not found")
	}
	return nil
}

// CheckAccess age-gates a story for a child.
func (s *StoryService) CheckAccess(storyID, childID string) (*models.Story, *models.Child, error) {
	story, err := s.GetStory(storyID)
	if err != nil {
		return nil, nil, err
	}

	var child models.Child
	if err := s.DB.First(&child, "id = ?", childID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, utils.NewNotFoundError("Child not found")
		}
		return nil, nil, utils.NewServerError("Error checking story access", err)
	}

	r, ok := AgeRangeForGroup(story.AgeGroup)
	if !ok {
		return nil, nil, utils.NewValidationError("Invalid story ageGroup")
	}
	if child.Age < r.Min || child.Age > r.Max {
		return nil, nil, utils.NewForbiddenError(fmt.Sprintf(
			"Access denied: story is for ages %d-%d, child age is %d", r.Min, r.Max, child.Age))
	}
	return story, &child, nil
}

// SearchGoogle proxies a library search to Google Books.
func (s *StoryService) SearchGoogle(q string) ([]GoogleBook, error) {
	if q == "" {
		return nil, utils.NewValidationError(`Query parameter "q" is required`)
	}
	books, err := s.Books.Search(q)
	if err != nil {
		return nil, utils.NewServerError("Error searching Google Books", err)
	}
	return books, nil
}

// ImportGoogleBook copies one Google volume into the library. Each volume can
// only be imported once.
func (s *StoryService) ImportGoogleBook(googleBookID, ageGroup, createdBy string) (*models.Story, error) {
	if _, ok := AgeRangeForGroup(ageGroup); !ok {
		return nil, utils.NewValidationError("Invalid story ageGroup")
	}

	var count int64
	if err := s.DB.Model(&models.Story{}).Where("google_book_id = ?", googleBookID).Count(&count).Error; err != nil {
		return nil, utils.NewServerError("Error importing story", err)
	}
	if count > 0 {
		return nil, utils.NewConflictError("This Google book has already been imported")
	}

	book, err := s.Books.GetByID(googleBookID)
	if err != nil {
		return nil, utils.NewServerError("Error importing story", err)
	}
	if book == nil {
		return nil, utils.NewNotFoundError("Google book not found")
	}

	title := titleCaser.String(strings.ToLower(book.Title))
	story := &models.Story{
		ID:           uuid.NewString(),
		Title:        title,
		Author:       book.Author,
		Description:  book.Description,
		Slug:         slug.Make(title),
		AgeGroup:     ageGroup,
		Genres:       []string{"imported"},
		CoverImage:   book.CoverImage,
		PageCount:    book.PageCount,
		Source:       models.StorySourceGoogle,
		GoogleBookID: googleBookID,
		PreviewLink:  book.PreviewLink,
		CreatedBy:    createdBy,
	}
	if err := s.DB.Create(story).Error; err != nil {
		return nil, utils.NewServerError("Error importing story", err)
	}
	return story, nil
}

// SyncGoogleStory refreshes metadata on a previously imported story.
func (s *StoryService) SyncGoogleStory(id string) (*models.Story, error) {
	story, err := s.GetStory(id)
	if err != nil {
		return nil, err
	}
	if story.Source != models.StorySourceGoogle {
		return nil, utils.NewValidationError("Only Google imported stories can be synced")
	}
	if story.GoogleBookID == "" {
		return nil, utils.NewValidationError("No Google Book ID found for this story")
	}

	book, err := s.Books.GetByID(story.GoogleBookID)
	if err != nil {
		return nil, utils.NewServerError("Error syncing story metadata", err)
	}
	if book == nil {
		return nil, utils.NewNotFoundError("Unable to fetch metadata from Google")
	}

	applyGoogleMetadata(story, book)
	if err := s.DB.Save(story).Error; err != nil {
		return nil, utils.NewServerError("Error syncing story metadata", err)
	}

	log.WithField("story_id", story.ID).Info("google metadata synced")
	return story, nil
}

// applyGoogleMetadata copies non-empty fields from the fresh volume onto the
// story, leaving locally curated values in place otherwise.
func applyGoogleMetadata(story *models.Story, book *GoogleBook) {
	if book.Title != "" && book.Title != "Unknown" {
		story.Title = book.Title
		story.Slug = slug.Make(book.Title)
	}
	if book.Author != "" && book.Author != "Unknown" {
		story.Author = book.Author
	}
	if book.Description != "" {
		story.Description = book.Description
	}
	if book.CoverImage != "" {
		story.CoverImage = book.CoverImage
	}
	if book.PreviewLink != "" {
		story.PreviewLink = book.PreviewLink
	}
	if book.PageCount > 0 {
		story.PageCount = book.PageCount
	}
}
