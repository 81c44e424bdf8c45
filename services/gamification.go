package services

import (
	"fmt"
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GamificationService is the entry point for every point-balance change:
// ledger lookup/creation, accrual, level/streak recompute, stat increments,
// transaction recording and badge re-evaluation, in that order.
type GamificationService struct {
	DB          *gorm.DB
	Badges      *BadgeService
	Leaderboard *LeaderboardCache // optional, nil disables caching
}

func NewGamificationService(db *gorm.DB, leaderboard *LeaderboardCache) *GamificationService {
	return &GamificationService{
		DB:          db,
		Badges:      NewBadgeService(db),
		Leaderboard: leaderboard,
	}
}

// AwardResult pairs the primary ledger entry with the progress record it
// mutated. Progress may carry further badge mutations made after the
// transaction was written.
type AwardResult struct {
	Transaction *models.PointTransaction
	Progress    *models.UserProgress
}

// FindOrCreateProgress loads the progress record keyed by (user, child),
// creating it when absent. The insert is an ON CONFLICT DO NOTHING upsert on
// the composite unique index, so two concurrent first-awards cannot create
// duplicate records.
func (s *GamificationService) FindOrCreateProgress(userID, childID string) (*models.UserProgress, error) {
	seed := models.UserProgress{
		ID:           uuid.NewString(),
		UserID:       userID,
		ChildID:      childID,
		Level:        1,
		Badges:       []models.EarnedBadge{},
		Achievements: []models.AchievementEntry{},
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "child_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var prog models.UserProgress
	err := s.DB.Where("user_id = ? AND child_id = ?", userID, childID).First(&prog).Error
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// AwardPoints credits points to the (user, child) progress record and appends
// the matching ledger entry. Progress save and ledger append run in one DB
// transaction. Badge evaluation runs afterwards and its failures are logged,
// never surfaced: a badge-side problem must not fail the primary award.
func (s *GamificationService) AwardPoints(userID string, points int, source, description, childID string, ref models.TransactionRef) (*AwardResult, error) {
	if points <= 0 {
		return nil, utils.NewValidationError("Points must be greater than 0")
	}
	if !models.ValidSource(source) {
		return nil, utils.NewValidationError("Invalid source type")
	}

	prog, err := s.FindOrCreateProgress(userID, childID)
	if err != nil {
		return nil, utils.NewServerError("Error awarding points", err)
	}

	now := time.Now()
	balanceBefore := prog.TotalPoints
	prog.TotalPoints += points
	prog.Level = CalculateLevel(prog.TotalPoints)
	UpdateStreak(prog, now)

	switch source {
	case models.SourceStoryRead:
		prog.Stats.StoriesRead++
	case models.SourceAssignmentCompleted:
		prog.Stats.AssignmentsCompleted++
	}

	if description == "" {
		description = fmt.Sprintf("Earned %d points from %s", points, source)
	}

	tx := &models.PointTransaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		ChildID:       childID,
		Points:        points,
		Type:          models.TxTypeEarn,
		Source:        source,
		Description:   description,
		Reference:     ref,
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
		return nil, utils.NewServerError("Error awarding points", err)
	}

	if err := s.Badges.EvaluateBadges(prog); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("badge evaluation failed after point award")
	}

	s.refreshLeaderboard(prog)

	return &AwardResult{Transaction: tx, Progress: prog}, nil
}

// AddReadingTime rolls completed session minutes into the progress stats.
func (s *GamificationService) AddReadingTime(userID, childID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	prog, err := s.FindOrCreateProgress(userID, childID)
	if err != nil {
		return err
	}
	prog.Stats.TotalReadingTime += minutes
	return s.DB.Save(prog).Error
}

// GetProgress loads (or lazily creates) a progress record.
func (s *GamificationService) GetProgress(userID, childID string) (*models.UserProgress, error) {
	prog, err := s.FindOrCreateProgress(userID, childID)
	if err != nil {
		return nil, utils.NewServerError("Error fetching user progress", err)
	}
	return prog, nil
}

// GetUserRank returns the 1-based leaderboard position for a progress key,
// counting records with a strictly higher balance.
func (s *GamificationService) GetUserRank(userID, childID string) (int, error) {
	var prog models.UserProgress
	err := s.DB.Where("user_id = ? AND child_id = ?", userID, childID).First(&prog).Error
	if err != nil {
		return 0, err
	}

	var higher int64
	err = s.DB.Model(&models.UserProgress{}).
		Where("total_points > ?", prog.TotalPoints).
		Count(&higher).Error
	if err != nil {
		return 0, err
	}
	return int(higher) + 1, nil
}

// GetLeaderboard returns progress records sorted strictly by totalPoints
// descending, capped at limit. Serves from the Redis cache when available,
// falling back to (and rewarming from) the database.
func (s *GamificationService) GetLeaderboard(limit int, childSpecific bool) ([]models.UserProgress, error) {
	if limit < 1 {
		limit = 10
	}

	if s.Leaderboard != nil {
		if entries, err := s.Leaderboard.Top(limit, childSpecific); err == nil && len(entries) > 0 {
			var records []models.UserProgress
			if err := s.DB.Where("id IN ?", entries).Find(&records).Error; err == nil && len(records) == len(entries) {
				ordered := make([]models.UserProgress, 0, len(records))
				byID := make(map[string]models.UserProgress, len(records))
				for _, r := range records {
					byID[r.ID] = r
				}
				for _, id := range entries {
					if r, ok := byID[id]; ok {
						ordered = append(ordered, r)
					}
				}
				return ordered, nil
			}
		}
	}

	q := s.DB.Order("total_points DESC").Limit(limit)
	if childSpecific {
		q = q.Where("child_id <> ''")
	}
	var records []models.UserProgress
	if err := q.Find(&records).Error; err != nil {
		return nil, utils.NewServerError("Error fetching leaderboard", err)
	}

	if s.Leaderboard != nil {
		for i := range records {
			s.Leaderboard.Update(&records[i])
		}
	}
	return records, nil
}

// GetTransactions returns the newest-first ledger page for a user.
func (s *GamificationService) GetTransactions(userID, childID, txType, source string, limit int) ([]models.PointTransaction, error) {
	if limit < 1 {
		limit = 50
	}

	q := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit)
	if childID != "" {
		q = q.Where("child_id = ?", childID)
	}
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if source != "" {
		q = q.Where("source = ?", source)
	}

	var txs []models.PointTransaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, utils.NewServerError("Error fetching transaction history", err)
	}
	return txs, nil
}

func (s *GamificationService) refreshLeaderboard(prog *models.UserProgress) {
	if s.Leaderboard == nil {
		return
	}
	if err := s.Leaderboard.Update(prog); err != nil {
		log.WithError(err).Debug("leaderboard cache update failed")
	}
}
