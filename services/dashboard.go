package services

import (
	"time"

	"nestory-backend/models"
	"nestory-backend/utils"

	"gorm.io/gorm"
)

// DashboardService aggregates family reading activity for the parent views.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// ChildStats is the per-child row on the family dashboard.
type ChildStats struct {
	Child                *models.Child `json:"child"`
	TotalAssignments     int64         `json:"totalAssignments"`
	CompletedAssignments int64         `json:"completedAssignments"`
	InProgress           int64         `json:"inProgress"`
	CompletionRate       float64       `json:"completionRate"`
	TotalReadingMinutes  int           `json:"totalReadingMinutes"`
}

// FamilyDashboard is the parent's home view.
type FamilyDashboard struct {
	Family            *models.Family      `json:"family"`
	ChildStats        []ChildStats        `json:"childStats"`
	MostActiveReader  *models.Child       `json:"mostActiveReader,omitempty"`
	RecentAssignments []models.Assignment `json:"recentAssignments"`
	RecentCompletions []models.Assignment `json:"recentCompletions"`
}

// GetFamilyDashboard builds the full family overview.
func (s *DashboardService) GetFamilyDashboard(parentID string) (*FamilyDashboard, error) {
	var family models.Family
	err := s.DB.Preload("Children", "is_active = ?", true).
		First(&family, "parent_id = ?", parentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Family not found")
		}
		return nil, utils.NewServerError("Error building dashboard", err)
	}

	dash := &FamilyDashboard{Family: &family, ChildStats: make([]ChildStats, 0, len(family.Children))}
	maxMinutes := -1
	for i := range family.Children {
		child := &family.Children[i]
		stats, err := s.childStats(child)
		if err != nil {
			return nil, err
		}
		dash.ChildStats = append(dash.ChildStats, *stats)
		if stats.TotalReadingMinutes > maxMinutes && stats.TotalReadingMinutes > 0 {
			maxMinutes = stats.TotalReadingMinutes
			dash.MostActiveReader = child
		}
	}

	err = s.DB.Preload("Child").Preload("Story").
		Where("family_id = ?", family.ID).
		Order("created_at DESC").Limit(5).
		Find(&dash.RecentAssignments).Error
	if err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}

	err = s.DB.Preload("Child").Preload("Story").
		Where("family_id = ? AND status = ?", family.ID, models.AssignmentStatusCompleted).
		Order("completed_at DESC").Limit(5).
		Find(&dash.RecentCompletions).Error
	if err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	return dash, nil
}

// ChildDashboard is the detail view for one child.
type ChildDashboard struct {
	Stats              *ChildStats         `json:"stats"`
	ActiveAssignments  []models.Assignment `json:"activeAssignments"`
	WeeklyReadingCount int64               `json:"weeklyReadingCount"`
}

// GetChildDashboard builds the per-child detail view.
func (s *DashboardService) GetChildDashboard(parentID, childID string) (*ChildDashboard, error) {
	var child models.Child
	err := s.DB.First(&child, "id = ? AND parent_id = ? AND is_active = ?", childID, parentID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Child not found")
		}
		return nil, utils.NewServerError("Error building dashboard", err)
	}

	stats, err := s.childStats(&child)
	if err != nil {
		return nil, err
	}
	dash := &ChildDashboard{Stats: stats}

	err = s.DB.Preload("Story").
		Where("child_id = ? AND status <> ?", childID, models.AssignmentStatusCompleted).
		Order("created_at DESC").
		Find(&dash.ActiveAssignments).Error
	if err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	err = s.DB.Model(&models.ReadingSession{}).
		Where("child_id = ? AND last_updated_at >= ?", childID, weekAgo).
		Count(&dash.WeeklyReadingCount).Error
	if err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	return dash, nil
}

// Summary is the compact header widget: one number per concern.
type Summary struct {
	ChildCount           int64 `json:"childCount"`
	TotalAssignments     int64 `json:"totalAssignments"`
	CompletedAssignments int64 `json:"completedAssignments"`
	TotalPoints          int   `json:"totalPoints"`
	TotalReadingMinutes  int   `json:"totalReadingMinutes"`
}

// GetSummary returns account-wide headline numbers for a parent.
func (s *DashboardService) GetSummary(parentID string) (*Summary, error) {
	sum := &Summary{}

	if err := s.DB.Model(&models.Child{}).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Count(&sum.ChildCount).Error; err != nil {
		return nil, utils.NewServerError("Error building summary", err)
	}
	if err := s.DB.Model(&models.Assignment{}).
		Where("assigned_by = ?", parentID).
		Count(&sum.TotalAssignments).Error; err != nil {
		return nil, utils.NewServerError("Error building summary", err)
	}
	if err := s.DB.Model(&models.Assignment{}).
		Where("assigned_by = ? AND status = ?", parentID, models.AssignmentStatusCompleted).
		Count(&sum.CompletedAssignments).Error; err != nil {
		return nil, utils.NewServerError("Error building summary", err)
	}

	var progresses []models.UserProgress
	if err := s.DB.Where("user_id = ?", parentID).Find(&progresses).Error; err != nil {
		return nil, utils.NewServerError("Error building summary", err)
	}
	for _, p := range progresses {
		if p.ChildID != "" {
			sum.TotalPoints += p.TotalPoints
			sum.TotalReadingMinutes += p.Stats.TotalReadingTime
		}
	}
	return sum, nil
}

func (s *DashboardService) childStats(child *models.Child) (*ChildStats, error) {
	stats := &ChildStats{Child: child}

	if err := s.DB.Model(&models.Assignment{}).
		Where("child_id = ?", child.ID).
		Count(&stats.TotalAssignments).Error; err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	if err := s.DB.Model(&models.Assignment{}).
		Where("child_id = ? AND status = ?", child.ID, models.AssignmentStatusCompleted).
		Count(&stats.CompletedAssignments).Error; err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	if err := s.DB.Model(&models.Assignment{}).
		Where("child_id = ? AND status = ?", child.ID, models.AssignmentStatusInProgress).
		Count(&stats.InProgress).Error; err != nil {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	if stats.TotalAssignments > 0 {
		stats.CompletionRate = float64(stats.CompletedAssignments) / float64(stats.TotalAssignments) * 100
	}

	var prog models.UserProgress
	err := s.DB.First(&prog, "user_id = ? AND child_id = ?", child.ParentID, child.ID).Error
	if err == nil {
		stats.TotalReadingMinutes = prog.Stats.TotalReadingTime
	} else if err != gorm.ErrRecordNotFound {
		return nil, utils.NewServerError("Error building dashboard", err)
	}
	return stats, nil
}
