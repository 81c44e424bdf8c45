package services

import (
	"fmt"
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BadgeService owns the badge catalog and the eligibility engine.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// EvaluateBadges scans the full active catalog once and awards every badge the
// progress snapshot newly qualifies for. Each award adds the badge points,
// recomputes the level and appends a bonus transaction. Points added by an
// earlier badge in the pass count toward later total_points criteria, matching
// the single mutable snapshot the pass iterates over.
func (s *BadgeService) EvaluateBadges(prog *models.UserProgress) error {
	var catalog []models.Badge
	if err := s.DB.Where("is_active = ?", true).Find(&catalog).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, badge := range catalog {
		if prog.HasBadge(badge.ID) {
			continue
		}
		if !badge.Criteria.Met(prog) {
			continue
		}

		balanceBefore := prog.TotalPoints
		prog.Badges = append(prog.Badges, models.EarnedBadge{Badge: badge.ID, EarnedAt: now})
		prog.TotalPoints += badge.Points
		prog.Level = CalculateLevel(prog.TotalPoints)

		tx := &models.PointTransaction{
			ID:            uuid.NewString(),
			UserID:        prog.UserID,
			ChildID:       prog.ChildID,
			Points:        badge.Points,
			Type:          models.TxTypeBonus,
			Source:        models.SourceBadgeEarned,
			Description:   fmt.Sprintf("Earned badge: %s", badge.Name),
			Reference:     models.BadgeRef(badge.ID),
			BalanceBefore: balanceBefore,
			BalanceAfter:  prog.TotalPoints,
		}
		if err := s.DB.Create(tx).Error; err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"user_id": prog.UserID,
			"badge":   badge.Name,
		}).Info("badge awarded")
	}

	return s.DB.Save(prog).Error
}

// AwardBadge grants a badge directly, bypassing the criteria check. Duplicate
// awards are rejected. Badge points are credited with a level recompute and a
// ledger entry, same as the automatic path.
func (s *BadgeService) AwardBadge(g *GamificationService, userID, childID, badgeID string) (*models.Badge, *models.UserProgress, error) {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", badgeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, utils.NewNotFoundError("Badge not found")
		}
		return nil, nil, utils.NewServerError("Error awarding badge", err)
	}

	prog, err := g.FindOrCreateProgress(userID, childID)
	if err != nil {
		return nil, nil, utils.NewServerError("Error awarding badge", err)
	}

	if prog.HasBadge(badgeID) {
		return nil, nil, utils.NewConflictError("Badge already earned")
	}

	now := time.Now()
	balanceBefore := prog.TotalPoints
	prog.Badges = append(prog.Badges, models.EarnedBadge{Badge: badgeID, EarnedAt: now})
	prog.TotalPoints += badge.Points
	prog.Level = CalculateLevel(prog.TotalPoints)

	tx := &models.PointTransaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		ChildID:       childID,
		Points:        badge.Points,
		Type:          models.TxTypeEarn,
		Source:        models.SourceBadgeEarned,
		Description:   fmt.Sprintf("Earned badge: %s", badge.Name),
		Reference:     models.BadgeRef(badgeID),
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
		return nil, nil, utils.NewServerError("Error awarding badge", err)
	}

	g.refreshLeaderboard(prog)
	return &badge, prog, nil
}

// ListBadges returns catalog entries, optionally filtered, ordered by tier
// then points.
func (s *BadgeService) ListBadges(category, tier string, isActive *bool) ([]models.Badge, error) {
	q := s.DB.Order("tier ASC, points ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if tier != "" {
		q = q.Where("tier = ?", tier)
	}
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var badges []models.Badge
	if err := q.Find(&badges).Error; err != nil {
		return nil, utils.NewServerError("Error fetching badges", err)
	}
	return badges, nil
}

// CreateBadge adds a catalog entry; names are unique.
func (s *BadgeService) CreateBadge(badge *models.Badge) error {
	var count int64
	if err := s.DB.Model(&models.Badge{}).Where("name = ?", badge.Name).Count(&count).Error; err != nil {
		return utils.NewServerError("Error creating badge", err)
	}
	if count > 0 {
		return utils.NewConflictError("Badge with this name already exists")
	}

	badge.ID = uuid.NewString()
	if err := s.DB.Create(badge).Error; err != nil {
		return utils.NewServerError("Error creating badge", err)
	}
	return nil
}

// GetBadgesByIDs resolves catalog detail for a set of badge ids.
func (s *BadgeService) GetBadgesByIDs(ids []string) (map[string]models.Badge, error) {
	out := make(map[string]models.Badge, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var badges []models.Badge
	if err := s.DB.Where("id IN ?", ids).Find(&badges).Error; err != nil {
		return nil, err
	}
	for _, b := range badges {
		out[b.ID] = b
	}
	return out, nil
}
