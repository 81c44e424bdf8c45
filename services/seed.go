package services

import (
	"nestory-backend/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var defaultBadges = []models.Badge{
	{Name: "First Steps", Description: "Read your first story", Icon: "👶", Category: "reading", Tier: models.TierBronze, Points: 10,
		Criteria: models.BadgeCriteria{Type: models.CriteriaStoryCount, Threshold: 1}, Rarity: "common"},
	{Name: "Bookworm", Description: "Read 10 stories", Icon: "📚", Category: "reading", Tier: models.TierSilver, Points: 50,
		Criteria: models.BadgeCriteria{Type: models.CriteriaStoryCount, Threshold: 10}, Rarity: "common"},
	{Name: "Story Master", Description: "Read 50 stories", Icon: "🎓", Category: "reading", Tier: models.TierGold, Points: 200,
		Criteria: models.BadgeCriteria{Type: models.CriteriaStoryCount, Threshold: 50}, Rarity: "rare"},
	{Name: "Library Legend", Description: "Read 100 stories", Icon: "👑", Category: "reading", Tier: models.TierPlatinum, Points: 500,
		Criteria: models.BadgeCriteria{Type: models.CriteriaStoryCount, Threshold: 100}, Rarity: "epic"},
	{Name: "Day Streak", Description: "Maintain a 3-day reading streak", Icon: "🔥", Category: "streak", Tier: models.TierBronze, Points: 30,
		Criteria: models.BadgeCriteria{Type: models.CriteriaDaysStreak, Threshold: 3}, Rarity: "common"},
	{Name: "Week Warrior", Description: "Maintain a 7-day reading streak", Icon: "⚡", Category: "streak", Tier: models.TierSilver, Points: 100,
		Criteria: models.BadgeCriteria{Type: models.CriteriaDaysStreak, Threshold: 7}, Rarity: "rare"},
	{Name: "Dedication Master", Description: "Maintain a 30-day reading streak", Icon: "💎", Category: "streak", Tier: models.TierGold, Points: 500,
		Criteria: models.BadgeCriteria{Type: models.CriteriaDaysStreak, Threshold: 30}, Rarity: "legendary"},
	{Name: "Points Collector", Description: "Earn 500 total points", Icon: "💰", Category: "achievement", Tier: models.TierSilver, Points: 50,
		Criteria: models.BadgeCriteria{Type: models.CriteriaTotalPoints, Threshold: 500}, Rarity: "common"},
	{Name: "Points Champion", Description: "Earn 2000 total points", Icon: "🏆", Category: "achievement", Tier: models.TierGold, Points: 200,
		Criteria: models.BadgeCriteria{Type: models.CriteriaTotalPoints, Threshold: 2000}, Rarity: "rare"},
	{Name: "Task Completer", Description: "Complete 5 assignments", Icon: "✅", Category: "achievement", Tier: models.TierBronze, Points: 40,
		Criteria: models.BadgeCriteria{Type: models.CriteriaAssignmentsCompleted, Threshold: 5}, Rarity: "common"},
}

var defaultAchievements = []models.Achievement{
	{Name: "Reading Explorer", Description: "Read stories from 5 different categories", Icon: "🧭", Category: "exploration",
		Type: models.AchievementOneTime, TargetValue: 5, Reward: models.AchievementReward{Points: 100}, Difficulty: "medium"},
	{Name: "Consistent Reader", Description: "Read at least one story for 10 consecutive days", Icon: "📖", Category: "consistency",
		Type: models.AchievementRepeatable, TargetValue: 10, Reward: models.AchievementReward{Points: 150}, Difficulty: "medium"},
	{Name: "Assignment Pro", Description: "Complete 20 assignments", Icon: "🎯", Category: "milestone",
		Type: models.AchievementProgressive, TargetValue: 20, Reward: models.AchievementReward{Points: 250}, Difficulty: "hard"},
	{Name: "Early Bird", Description: "Read a story before 8 AM for 5 days", Icon: "🌅", Category: "consistency",
		Type: models.AchievementOneTime, TargetValue: 5, Reward: models.AchievementReward{Points: 80}, Difficulty: "easy"},
	{Name: "Night Owl", Description: "Read a story after 10 PM for 5 days", Icon: "🦉", Category: "consistency",
		Type: models.AchievementOneTime, TargetValue: 5, Reward: models.AchievementReward{Points: 80}, Difficulty: "easy"},
}

// SeedGamification installs the default badge and achievement catalogs,
// skipping entries whose names already exist. Safe to run on every boot.
func SeedGamification(db *gorm.DB) error {
	for _, badge := range defaultBadges {
		var count int64
		if err := db.Model(&models.Badge{}).Where("name = ?", badge.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		badge.ID = uuid.NewString()
		badge.IsActive = true
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
		log.WithField("badge", badge.Name).Info("created default badge")
	}

	for _, ach := range defaultAchievements {
		var count int64
		if err := db.Model(&models.Achievement{}).Where("name = ?", ach.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		ach.ID = uuid.NewString()
		ach.IsActive = true
		if err := db.Create(&ach).Error; err != nil {
			return err
		}
		log.WithField("achievement", ach.Name).Info("created default achievement")
	}

	return nil
}
