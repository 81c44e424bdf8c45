package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nestory-backend/models"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gamificationTestEnv struct {
	app   *fiber.App
	g     *services.GamificationService
	db    *gorm.DB
	token string
	user  *models.User
}

func newGamificationTestEnv(t *testing.T) *gamificationTestEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProgress{},
		&models.Badge{},
		&models.Achievement{},
		&models.PointTransaction{},
	))

	auth := services.NewAuthService(db)
	user, token, err := auth.Register("Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	g := services.NewGamificationService(db, nil)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	SetupGamificationRoutes(app, auth, g, g.Badges, services.NewAchievementService(db))

	return &gamificationTestEnv{app: app, g: g, db: db, token: token, user: user}
}

func (e *gamificationTestEnv) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAwardPointsEndpoint(t *testing.T) {
	env := newGamificationTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/gamification/points/award", fiber.Map{
		"userId":  env.user.ID,
		"childId": "child-1",
		"points":  20,
		"source":  "story_read",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 20, data["currentBalance"])
	assert.EqualValues(t, 1, data["level"])
	assert.EqualValues(t, 1, data["streak"])

	tx := data["transaction"].(map[string]interface{})
	assert.EqualValues(t, 0, tx["balanceBefore"])
	assert.EqualValues(t, 20, tx["balanceAfter"])
}

func TestAwardPointsEndpointRejectsBadInput(t *testing.T) {
	env := newGamificationTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/gamification/points/award", fiber.Map{
		"userId": env.user.ID,
		"points": 0,
		"source": "story_read",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestGamificationRoutesRequireAuth(t *testing.T) {
	env := newGamificationTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/gamification/badges", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBadgeCreateRequiresAdmin(t *testing.T) {
	env := newGamificationTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/gamification/badges", fiber.Map{
		"name":        "First Steps",
		"description": "Read a story",
		"criteria":    fiber.Map{"type": "story_count", "threshold": 1},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProgressEndpointPopulatesBadges(t *testing.T) {
	env := newGamificationTestEnv(t)

	badge := models.Badge{
		Name:        "First Steps",
		Description: "Read a story",
		Points:      10,
		IsActive:    true,
		Criteria:    models.BadgeCriteria{Type: models.CriteriaStoryCount, Threshold: 1},
	}
	require.NoError(t, env.g.Badges.CreateBadge(&badge))

	_, err := env.g.AwardPoints(env.user.ID, 20, models.SourceStoryRead, "", "", models.NoRef())
	require.NoError(t, err)

	resp := env.request(t, http.MethodGet, "/api/gamification/progress/"+env.user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 30, data["totalPoints"])

	badges := data["badges"].([]interface{})
	require.Len(t, badges, 1)
	detail := badges[0].(map[string]interface{})["badge"].(map[string]interface{})
	assert.Equal(t, "First Steps", detail["name"], "earned badge carries catalog detail")
}

func TestTransactionsEndpoint(t *testing.T) {
	env := newGamificationTestEnv(t)

	_, err := env.g.AwardPoints(env.user.ID, 20, models.SourceStoryRead, "", "", models.NoRef())
	require.NoError(t, err)
	_, err = env.g.AwardPoints(env.user.ID, 30, models.SourceAssignmentCompleted, "", "", models.NoRef())
	require.NoError(t, err)

	resp := env.request(t, http.MethodGet, "/api/gamification/transactions/"+env.user.ID+"?source=story_read", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.EqualValues(t, 1, body["count"])
}
