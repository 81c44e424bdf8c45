package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStories(t *testing.T, db *gorm.DB, books *GoogleBooksClient) *StoryService {
	t.Helper()
	if db == nil {
		db = newTestDB(t)
	}
	return NewStoryService(db, books)
}

func TestAgeRangeForGroup(t *testing.T) {
	r, ok := AgeRangeForGroup(models.AgeGroupToddler)
	require.True(t, ok)
	assert.Equal(t, AgeRange{Min: 3, Max: 5}, r)

	r, ok = AgeRangeForGroup(models.AgeGroupYoungAdult)
	require.True(t, ok)
	assert.Equal(t, AgeRange{Min: 13, Max: 17}, r)

	_, ok = AgeRangeForGroup("adult")
	assert.False(t, ok)
}

func TestCreateStorySlugAndDefaults(t *testing.T) {
	svc := newTestStories(t, nil, nil)

	story := models.Story{
		Title:    "The Very Hungry Caterpillar",
		Author:   "Eric Carle",
		AgeGroup: models.AgeGroupToddler,
		Genres:   []string{"picture-book"},
	}
	require.NoError(t, svc.CreateStory(&story, "admin-1"))

	assert.Equal(t, "the-very-hungry-caterpillar", story.Slug)
	assert.Equal(t, models.StorySourceInternal, story.Source)
	assert.Equal(t, "admin-1", story.CreatedBy)
	assert.NotEmpty(t, story.ID)
}

func TestCreateStoryValidation(t *testing.T) {
	svc := newTestStories(t, nil, nil)

	err := svc.CreateStory(&models.Story{
		Title: "No Group", Author: "x", AgeGroup: "adult", Genres: []string{"g"},
	}, "admin-1")
	require.Error(t, err)

	err = svc.CreateStory(&models.Story{
		Title: "No Genres", Author: "x", AgeGroup: models.AgeGroupToddler,
	}, "admin-1")
	require.Error(t, err)
}

func TestListStoriesFilters(t *testing.T) {
	svc := newTestStories(t, nil, nil)

	for _, s := range []models.Story{
		{Title: "Dragon Tales", Author: "A", AgeGroup: models.AgeGroupEarlyReader, Genres: []string{"fantasy"}},
		{Title: "Space Cats", Author: "B", AgeGroup: models.AgeGroupEarlyReader, Genres: []string{"sci-fi"}},
		{Title: "Teen Drama", Author: "C", AgeGroup: models.AgeGroupYoungAdult, Genres: []string{"drama"}},
	} {
		story := s
		require.NoError(t, svc.CreateStory(&story, "admin-1"))
	}

	page, err := svc.ListStories(StoryFilter{AgeGroup: models.AgeGroupEarlyReader})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.ListStories(StoryFilter{Search: "dragon"})
	require.NoError(t, err)
	require.Len(t, page.Stories, 1)
	assert.Equal(t, "Dragon Tales", page.Stories[0].Title)

	page, err = svc.ListStories(StoryFilter{Genre: "sci-fi"})
	require.NoError(t, err)
	require.Len(t, page.Stories, 1)
	assert.Equal(t, "Space Cats", page.Stories[0].Title)

	page, err = svc.ListStories(StoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Stories, 2)
	assert.Equal(t, 2, page.Pages)
}

func TestCheckAccessAgeGate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStories(t, db, nil)

	story := models.Story{
		Title: "Teen Drama", Author: "C",
		AgeGroup: models.AgeGroupYoungAdult, Genres: []string{"drama"},
	}
	require.NoError(t, svc.CreateStory(&story, "admin-1"))

	young := models.Child{ID: "child-young", Name: "Sam", Age: 8, FamilyID: "f", ParentID: "p", IsActive: true}
	teen := models.Child{ID: "child-teen", Name: "Alex", Age: 14, FamilyID: "f", ParentID: "p", IsActive: true}
	require.NoError(t, db.Create(&young).Error)
	require.NoError(t, db.Create(&teen).Error)

	_, _, err := svc.CheckAccess(story.ID, young.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access denied")

	got, child, err := svc.CheckAccess(story.ID, teen.ID)
	require.NoError(t, err)
	assert.Equal(t, story.ID, got.ID)
	assert.Equal(t, teen.ID, child.ID)
}

func TestImportGoogleBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "abc123",
			"volumeInfo": {
				"title": "the wild robot",
				"authors": ["Peter Brown"],
				"description": "A robot on an island.",
				"pageCount": 280,
				"previewLink": "https://books.example/preview",
				"imageLinks": {"thumbnail": "https://books.example/cover.jpg"}
			}
		}`))
	}))
	defer srv.Close()

	db := newTestDB(t)
	svc := newTestStories(t, db, &GoogleBooksClient{BaseURL: srv.URL, HTTP: srv.Client()})

	story, err := svc.ImportGoogleBook("abc123", models.AgeGroupMiddleGrade, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "The Wild Robot", story.Title, "imported titles are title-cased")
	assert.Equal(t, "Peter Brown", story.Author)
	assert.Equal(t, models.StorySourceGoogle, story.Source)
	assert.Equal(t, "abc123", story.GoogleBookID)
	assert.Equal(t, 280, story.PageCount)

	_, err = svc.ImportGoogleBook("abc123", models.AgeGroupMiddleGrade, "admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been imported")
}

func TestSyncRequiresGoogleSource(t *testing.T) {
	svc := newTestStories(t, nil, nil)

	story := models.Story{
		Title: "Local Tale", Author: "A",
		AgeGroup: models.AgeGroupToddler, Genres: []string{"g"},
	}
	require.NoError(t, svc.CreateStory(&story, "admin-1"))

	_, err := svc.SyncGoogleStory(story.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only Google imported stories can be synced")
}
