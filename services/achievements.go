package services

import (
	"fmt"
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementService tracks incremental progress toward per-achievement
// targets and finalizes the reward on threshold crossing.
type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// AdvanceResult reports one progress increment. CompletedNow is true only on
// the call that crossed the threshold.
type AdvanceResult struct {
	Achievement  *models.Achievement
	Entry        models.AchievementEntry
	CompletedNow bool
	TotalPoints  int
	Level        int
}

// AdvanceAchievement increments the per-achievement entry, creating it on
// first touch. Crossing targetValue latches completed exactly once: reward
// points are credited (with level recompute), the optional reward badge is
// pushed without its own points, and an "achievement" transaction brackets
// the reward. Increments past completion still accumulate but never
// re-trigger the reward path.
func (s *AchievementService) AdvanceAchievement(g *GamificationService, userID, childID, achievementID string, increment int) (*AdvanceResult, error) {
	if increment <= 0 {
		return nil, utils.NewValidationError("progressIncrement must be a positive integer")
	}

	var ach models.Achievement
	if err := s.DB.First(&ach, "id = ?", achievementID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Achievement not found")
		}
		return nil, utils.NewServerError("Error updating achievement progress", err)
	}

	prog, err := g.FindOrCreateProgress(userID, childID)
	if err != nil {
		return nil, utils.NewServerError("Error updating achievement progress", err)
	}

	idx := prog.AchievementIndex(achievementID)
	if idx < 0 {
		prog.Achievements = append(prog.Achievements, models.AchievementEntry{
			Achievement: achievementID,
		})
		idx = len(prog.Achievements) - 1
	}

	entry := &prog.Achievements[idx]
	entry.Progress += increment

	if entry.Progress >= ach.TargetValue && !entry.Completed {
		now := time.Now()
		entry.Completed = true
		entry.CompletedAt = &now

		balanceBefore := prog.TotalPoints
		prog.TotalPoints += ach.Reward.Points
		prog.Level = CalculateLevel(prog.TotalPoints)

		// The reward badge bypasses the badge engine: no badge points, no
		// separate badge transaction.
		if ach.Reward.BadgeID != "" && !prog.HasBadge(ach.Reward.BadgeID) {
			prog.Badges = append(prog.Badges, models.EarnedBadge{Badge: ach.Reward.BadgeID, EarnedAt: now})
		}

		tx := &models.PointTransaction{
			ID:            uuid.NewString(),
			UserID:        userID,
			ChildID:       childID,
			Points:        ach.Reward.Points,
			Type:          models.TxTypeEarn,
			Source:        models.SourceAchievement,
			Description:   fmt.Sprintf("Completed achievement: %s", ach.Name),
			Reference:     models.AchievementRef(achievementID),
			BalanceBefore: balanceBefore,
			BalanceAfter:  prog.TotalPoints,
		}

		err = s.DB.Transaction(func(db *gorm.DB) error {
			if err := db.Save(prog).Error; err != nil {
				return err
			}
			return db.Create(tx).Error
		})
		if err != nil {
			return nil, utils.NewServerError("Error updating achievement progress", err)
		}

		g.refreshLeaderboard(prog)

		return &AdvanceResult{
			Achievement:  &ach,
			Entry:        *entry,
			CompletedNow: true,
			TotalPoints:  prog.TotalPoints,
			Level:        prog.Level,
		}, nil
	}

	if err := s.DB.Save(prog).Error; err != nil {
		return nil, utils.NewServerError("Error updating achievement progress", err)
	}

	return &AdvanceResult{
		Achievement: &ach,
		Entry:       *entry,
		TotalPoints: prog.TotalPoints,
		Level:       prog.Level,
	}, nil
}

// ListAchievements returns catalog entries, optionally filtered, easiest
// first.
func (s *AchievementService) ListAchievements(category, difficulty string, isActive *bool) ([]models.Achievement, error) {
	q := s.DB.Order("difficulty ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var achievements []models.Achievement
	if err := q.Find(&achievements).Error; err != nil {
		return nil, utils.NewServerError("Error fetching achievements", err)
	}
	return achievements, nil
}

// CreateAchievement adds a catalog entry; names are unique.
func (s *AchievementService) CreateAchievement(ach *models.Achievement) error {
	if ach.TargetValue < 1 {
		return utils.NewValidationError("targetValue must be at least 1")
	}

	var count int64
	if err := s.DB.Model(&models.Achievement{}).Where("name = ?", ach.Name).Count(&count).Error; err != nil {
		return utils.NewServerError("Error creating achievement", err)
	}
	if count > 0 {
		return utils.NewConflictError("Achievement with this name already exists")
	}

	ach.ID = uuid.NewString()
	if err := s.DB.Create(ach).Error; err != nil {
		return utils.NewServerError("Error creating achievement", err)
	}
	return nil
}

// GetAchievementsByIDs resolves catalog detail for a set of achievement ids.
func (s *AchievementService) GetAchievementsByIDs(ids []string) (map[string]models.Achievement, error) {
	out := make(map[string]models.Achievement, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var achievements []models.Achievement
	if err := s.DB.Where("id IN ?", ids).Find(&achievements).Error; err != nil {
		return nil, err
	}
	for _, a := range achievements {
		out[a.ID] = a
	}
	return out, nil
}
