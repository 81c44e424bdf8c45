package services

import (
	"fmt"
	"testing"

	"nestory-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Family{},
		&models.Child{},
		&models.Story{},
		&models.Assignment{},
		&models.ReadingSession{},
		&models.UserProgress{},
		&models.Badge{},
		&models.Achievement{},
		&models.PointTransaction{},
	))
	return db
}

func newTestGamification(t *testing.T) *GamificationService {
	t.Helper()
	return NewGamificationService(newTestDB(t), nil)
}

func mustCreateBadge(t *testing.T, db *gorm.DB, name string, points int, criteria models.BadgeCriteria) models.Badge {
	t.Helper()
	badge := models.Badge{
		Name:        name,
		Description: name,
		Points:      points,
		Criteria:    criteria,
		IsActive:    true,
	}
	require.NoError(t, NewBadgeService(db).CreateBadge(&badge))
	return badge
}

func mustCreateAchievement(t *testing.T, db *gorm.DB, name string, target int, reward models.AchievementReward) models.Achievement {
	t.Helper()
	ach := models.Achievement{
		Name:        name,
		Description: name,
		TargetValue: target,
		Reward:      reward,
		IsActive:    true,
	}
	require.NoError(t, NewAchievementService(db).CreateAchievement(&ach))
	return ach
}
