package services

import (
	"testing"

	"nestory-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceAchievementAccumulates(t *testing.T) {
	g := newTestGamification(t)
	svc := NewAchievementService(g.DB)
	ach := mustCreateAchievement(t, g.DB, "Reading Explorer", 5, models.AchievementReward{Points: 100})

	res, err := svc.AdvanceAchievement(g, "parent-1", "child-1", ach.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Entry.Progress)
	assert.False(t, res.CompletedNow)
	assert.False(t, res.Entry.Completed)
	assert.Equal(t, 0, res.TotalPoints)
}

func TestAdvanceAchievementCompletionLatch(t *testing.T) {
	g := newTestGamification(t)
	svc := NewAchievementService(g.DB)
	ach := mustCreateAchievement(t, g.DB, "Reading Explorer", 5, models.AchievementReward{Points: 100})

	_, err := svc.AdvanceAchievement(g, "parent-1", "child-1", ach.ID, 3)
	require.NoError(t, err)

	res, err := svc.AdvanceAchievement(g, "parent-1", "child-1", ach.ID, 2)
	require.NoError(t, err)
	assert.True(t, res.CompletedNow)
	assert.True(t, res.Entry.Completed)
	require.NotNil(t, res.Entry.CompletedAt)
	assert.Equal(t, 100, res.TotalPoints)
	assert.Equal(t, 2, res.Level)

	// Further increments accumulate but never re-trigger the reward.
	res, err = svc.AdvanceAchievement(g, "parent-1", "child-1", ach.ID, 4)
	require.NoError(t, err)
	assert.False(t, res.CompletedNow)
	assert.Equal(t, 9, res.Entry.Progress)
	assert.Equal(t, 100, res.TotalPoints)

	var count int64
	require.NoError(t, g.DB.Model(&models.PointTransaction{}).
		Where("source = ?", models.SourceAchievement).Count(&count).Error)
	assert.EqualValues(t, 1, count, "exactly one reward transaction")
}

func TestAdvanceAchievementRewardBadge(t *testing.T) {
	g := newTestGamification(t)
	svc := NewAchievementService(g.DB)
	badge := mustCreateBadge(t, g.DB, "Explorer Badge", 40, models.BadgeCriteria{
		Type: models.CriteriaCustom, Threshold: 0,
	})
	ach := mustCreateAchievement(t, g.DB, "Reading Explorer", 2, models.AchievementReward{
		Points: 100, BadgeID: badge.ID,
	})

	res, err := svc.AdvanceAchievement(g, "parent-1", "child-1", ach.ID, 2)
	require.NoError(t, err)
	require.True(t, res.CompletedNow)

	prog, err := g.GetProgress("parent-1", "child-1")
	require.NoError(t, err)
	require.Len(t, prog.Badges, 1)
	assert.Equal(t, badge.ID, prog.Badges[0].Badge)
	assert.Equal(t, 100, prog.TotalPoints, "reward badge carries no points of its own")
}

func TestAdvanceAchievementValidation(t *testing.T) {
	g := newTestGamification(t)
	svc := NewAchievementService(g.DB)
	ach := mustCreateAchievement(t, g.DB, "Reading Explorer", 5, models.AchievementReward{Points: 100})

	_, err := svc.AdvanceAchievement(g, "parent-1", "", ach.ID, 0)
	require.Error(t, err)
	_, err = svc.AdvanceAchievement(g, "parent-1", "", ach.ID, -2)
	require.Error(t, err)

	_, err = svc.AdvanceAchievement(g, "parent-1", "", "no-such-achievement", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateAchievementValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)

	err := svc.CreateAchievement(&models.Achievement{Name: "Bad", Description: "d", TargetValue: 0})
	require.Error(t, err)

	first := models.Achievement{Name: "Reading Explorer", Description: "d", TargetValue: 5}
	require.NoError(t, svc.CreateAchievement(&first))

	dup := models.Achievement{Name: "Reading Explorer", Description: "d", TargetValue: 3}
	err = svc.CreateAchievement(&dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
