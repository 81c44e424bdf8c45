package services

import (
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const assignmentCompletionPoints = 30

// AssignmentService manages story assignments and hands completion rewards
// off to the gamification orchestrator.
type AssignmentService struct {
	DB           *gorm.DB
	Gamification *GamificationService
}

func NewAssignmentService(db *gorm.DB, g *GamificationService) *AssignmentService {
	return &AssignmentService{DB: db, Gamification: g}
}

// CreateAssignment assigns a story to one of the parent's children. A story
// can only be assigned once per child.
func (s *AssignmentService) CreateAssignment(parentID, childID, storyID string, dueDate *time.Time) (*models.Assignment, error) {
	var child models.Child
	if err := s.DB.First(&child, "id = ? AND parent_id = ? AND is_active = ?", childID, parentID, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Child not found")
		}
		return nil, utils.NewServerError("Error creating assignment", err)
	}

	var story models.Story
	if err := s.DB.First(&story, "id = ?", storyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Story not found")
		}
		return nil, utils.NewServerError("Error creating assignment", err)
	}

	var count int64
	if err := s.DB.Model(&models.Assignment{}).
		Where("child_id = ? AND story_id = ?", childID, storyID).
		Count(&count).Error; err != nil {
		return nil, utils.NewServerError("Error creating assignment", err)
	}
	if count > 0 {
		return nil, utils.NewConflictError("This story is already assigned to this child")
	}

	assignment := &models.Assignment{
		ID:         uuid.NewString(),
		ChildID:    childID,
		StoryID:    storyID,
		AssignedBy: parentID,
		FamilyID:   child.FamilyID,
		Status:     models.AssignmentStatusAssigned,
		DueDate:    dueDate,
	}
	if err := s.DB.Create(assignment).Error; err != nil {
		return nil, utils.NewServerError("Error creating assignment", err)
	}
	return assignment, nil
}

// GetAssignment loads one assignment owned by the parent, with child and
// story details.
func (s *AssignmentService) GetAssignment(parentID, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := s.DB.
		Preload("Child").Preload("Story").
		First(&assignment, "id = ? AND assigned_by = ?", id, parentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Assignment not found")
		}
		return nil, utils.NewServerError("Error fetching assignment", err)
	}
	return &assignment, nil
}

// ListChildAssignments returns a child's assignments, optionally filtered by
// status, newest first.
func (s *AssignmentService) ListChildAssignments(parentID, childID, status string) ([]models.Assignment, error) {
	var child models.Child
	if err := s.DB.First(&child, "id = ? AND parent_id = ?", childID, parentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Child not found")
		}
		return nil, utils.NewServerError("Error fetching assignments", err)
	}

	q := s.DB.Preload("Story").Where("child_id = ?", childID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var assignments []models.Assignment
	if err := q.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, utils.NewServerError("Error fetching assignments", err)
	}
	return assignments, nil
}

// UpdateStatus moves an assignment through its lifecycle. Completing an
// assignment pays out points through the orchestrator exactly once.
func (s *AssignmentService) UpdateStatus(parentID, id, status string) (*models.Assignment, error) {
	switch status {
	case models.AssignmentStatusAssigned, models.AssignmentStatusInProgress, models.AssignmentStatusCompleted:
	default:
		return nil, utils.NewValidationError("Invalid assignment status")
	}

	assignment, err := s.GetAssignment(parentID, id)
	if err != nil {
		return nil, err
	}

	completingNow := status == models.AssignmentStatusCompleted &&
		assignment.Status != models.AssignmentStatusCompleted

	assignment.Status = status
	if completingNow {
		now := time.Now().UTC()
		assignment.CompletedAt = &now
	}
	if err := s.DB.Save(assignment).Error; err != nil {
		return nil, utils.NewServerError("Error updating assignment", err)
	}

	if completingNow {
		_, err := s.Gamification.AwardPoints(
			parentID,
			assignmentCompletionPoints,
			models.SourceAssignmentCompleted,
			"",
			assignment.ChildID,
			models.AssignmentRef(assignment.ID),
		)
		if err != nil {
			// The status change stands; reward failures are surfaced in logs
			// and the ledger can be reconciled manually.
			log.WithError(err).WithField("assignment_id", assignment.ID).
				Error("failed to award assignment completion points")
		}
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment owned by the parent.
func (s *AssignmentService) DeleteAssignment(parentID, id string) error {
	res := s.DB.Delete(&models.Assignment{}, "id = ? AND assigned_by = ?", id, parentID)
	if res.Error != nil {
		return utils.NewServerError("Error deleting assignment", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError("Assignment not found")
	}
	return nil
}
