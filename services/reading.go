package services

import (
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	storyCompletionPoints = 20
	staleSessionAge       = 24 * time.Hour
)

// ReadingService tracks reading sessions and pays out completion rewards
// through the gamification orchestrator.
type ReadingService struct {
	DB           *gorm.DB
	Gamification *GamificationService
}

func NewReadingService(db *gorm.DB, g *GamificationService) *ReadingService {
	return &ReadingService{DB: db, Gamification: g}
}

// StartSession opens a reading session for a child and book. An open session
// for the same pair is resumed instead of duplicated.
func (s *ReadingService) StartSession(parentID, childID, bookID string, totalPages int) (*models.ReadingSession, error) {
	if totalPages <= 0 {
		return nil, utils.NewValidationError("totalPages must be a positive integer")
	}
	if err := s.checkChildOwnership(parentID, childID); err != nil {
		return nil, err
	}

	var existing models.ReadingSession
	err := s.DB.First(&existing, "child_id = ? AND book_id = ? AND completed = ?", childID, bookID, false).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, utils.NewServerError("Error starting reading session", err)
	}

	now := time.Now().UTC()
	session := &models.ReadingSession{
		ID:            uuid.NewString(),
		ChildID:       childID,
		BookID:        bookID,
		TotalPages:    totalPages,
		StartedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, utils.NewServerError("Error starting reading session", err)
	}
	return session, nil
}

// SessionUpdate is the result of one progress update, carrying the reward
// when the update completed the book.
type SessionUpdate struct {
	Session       *models.ReadingSession `json:"session"`
	Completed     bool                   `json:"completed"`
	PointsAwarded int                    `json:"pointsAwarded"`
}

// UpdateSession records reading progress. Reaching the final page completes
// the session, awards story points and rolls the time read into the child's
// progress stats.
func (s *ReadingService) UpdateSession(parentID, sessionID string, pagesRead, timeSpent int) (*SessionUpdate, error) {
	if pagesRead < 0 || timeSpent < 0 {
		return nil, utils.NewValidationError("pagesRead and timeSpent cannot be negative")
	}

	var session models.ReadingSession
	if err := s.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Reading session not found")
		}
		return nil, utils.NewServerError("Error updating reading session", err)
	}
	if err := s.checkChildOwnership(parentID, session.ChildID); err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, utils.NewValidationError("Reading session is already completed")
	}

	if pagesRead > session.PagesRead {
		session.PagesRead = pagesRead
	}
	session.TimeSpent += timeSpent
	session.LastUpdatedAt = time.Now().UTC()

	update := &SessionUpdate{Session: &session}
	if session.PagesRead >= session.TotalPages {
		session.Completed = true
		update.Completed = true
	}
	if err := s.DB.Save(&session).Error; err != nil {
		return nil, utils.NewServerError("Error updating reading session", err)
	}

	if update.Completed {
		res, err := s.Gamification.AwardPoints(
			parentID,
			storyCompletionPoints,
			models.SourceStoryRead,
			"",
			session.ChildID,
			models.StoryRef(session.BookID),
		)
		if err != nil {
			log.WithError(err).WithField("session_id", session.ID).
				Error("failed to award story completion points")
		} else {
			update.PointsAwarded = res.Transaction.Points
		}
		if err := s.Gamification.AddReadingTime(parentID, session.ChildID, session.TimeSpent); err != nil {
			log.WithError(err).WithField("session_id", session.ID).
				Warn("failed to record reading time")
		}
	}
	return update, nil
}

// WeeklyStats summarizes the last seven days of reading for a child.
type WeeklyStats struct {
	TotalMinutes      int `json:"totalMinutes"`
	SessionCount      int `json:"sessionCount"`
	CompletedSessions int `json:"completedSessions"`
	TotalPagesRead    int `json:"totalPagesRead"`
}

// GetWeeklyTime aggregates a child's sessions over the trailing week.
func (s *ReadingService) GetWeeklyTime(parentID, childID string) (*WeeklyStats, error) {
	if err := s.checkChildOwnership(parentID, childID); err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	var sessions []models.ReadingSession
	err := s.DB.
		Where("child_id = ? AND last_updated_at >= ?", childID, since).
		Find(&sessions).Error
	if err != nil {
		return nil, utils.NewServerError("Error fetching weekly reading time", err)
	}

	stats := &WeeklyStats{SessionCount: len(sessions)}
	for _, sess := range sessions {
		stats.TotalMinutes += sess.TimeSpent
		stats.TotalPagesRead += sess.PagesRead
		if sess.Completed {
			stats.CompletedSessions++
		}
	}
	return stats, nil
}

// GetReadingStreak computes a child's consecutive-day reading streak from
// session activity, independent of the points-driven streak on progress.
func (s *ReadingService) GetReadingStreak(parentID, childID string) (int, error) {
	if err := s.checkChildOwnership(parentID, childID); err != nil {
		return 0, err
	}

	var sessions []models.ReadingSession
	err := s.DB.
		Select("last_updated_at").
		Where("child_id = ?", childID).
		Order("last_updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return 0, utils.NewServerError("Error computing reading streak", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	days := make(map[time.Time]bool, len(sessions))
	for _, sess := range sessions {
		days[sess.LastUpdatedAt.UTC().Truncate(24*time.Hour)] = true
	}

	// Streak survives a quiet today as long as yesterday had activity.
	day := today
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// CloseStaleSessions marks sessions idle past the cutoff as completed so
// abandoned reads stop lingering. Returns how many were closed.
func (s *ReadingService) CloseStaleSessions() (int64, error) {
	cutoff := time.Now().UTC().Add(-staleSessionAge)
	res := s.DB.Model(&models.ReadingSession{}).
		Where("completed = ? AND last_updated_at < ?", false, cutoff).
		Update("completed", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *ReadingService) checkChildOwnership(parentID, childID string) error {
	var count int64
	err := s.DB.Model(&models.Child{}).
		Where("id = ? AND parent_id = ?", childID, parentID).
		Count(&count).Error
	if err != nil {
		return utils.NewServerError("Error verifying child", err)
	}
	if count == 0 {
		return utils.NewNotFoundError("Child not found")
	}
	return nil
}
