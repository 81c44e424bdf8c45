package services

import (
	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyService manages the one family a parent account owns.
type FamilyService struct {
	DB *gorm.DB
}

func NewFamilyService(db *gorm.DB) *FamilyService {
	return &FamilyService{DB: db}
}

// CreateFamily registers the parent's family. A parent can only have one.
func (s *FamilyService) CreateFamily(parentID, familyName string) (*models.Family, error) {
	if familyName == "" {
		return nil, utils.NewValidationError("familyName is required")
	}

	var count int64
	if err := s.DB.Model(&models.Family{}).Where("parent_id = ?", parentID).Count(&count).Error; err != nil {
		return nil, utils.NewServerError("Error creating family", err)
	}
	if count > 0 {
		return nil, utils.NewConflictError("Family already exists for this parent")
	}

	family := &models.Family{
		ID:         uuid.NewString(),
		FamilyName: familyName,
		ParentID:   parentID,
		IsActive:   true,
	}
	if err := s.DB.Create(family).Error; err != nil {
		return nil, utils.NewServerError("Error creating family", err)
	}
	return family, nil
}

// GetFamily returns the parent's family with its active children preloaded.
func (s *FamilyService) GetFamily(parentID string) (*models.Family, error) {
	var family models.Family
	err := s.DB.
		Preload("Children", "is_active = ?", true).
		First(&family, "parent_id = ?", parentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Family not found")
		}
		return nil, utils.NewServerError("Error fetching family", err)
	}
	return &family, nil
}

// GetFamilyByID loads a family by id and enforces ownership.
func (s *FamilyService) GetFamilyByID(parentID, familyID string) (*models.Family, error) {
	var family models.Family
	err := s.DB.
		Preload("Children", "is_active = ?", true).
		First(&family, "id = ?", familyID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Family not found")
		}
		return nil, utils.NewServerError("Error fetching family", err)
	}
	if family.ParentID != parentID {
		return nil, utils.NewForbiddenError("You do not have access to this family")
	}
	return &family, nil
}

// UpdateFamily renames the parent's family.
func (s *FamilyService) UpdateFamily(parentID, familyName string) (*models.Family, error) {
	if familyName == "" {
		return nil, utils.NewValidationError("familyName is required")
	}

	family, err := s.GetFamily(parentID)
	if err != nil {
		return nil, err
	}
	family.FamilyName = familyName
	if err := s.DB.Save(family).Error; err != nil {
		return nil, utils.NewServerError("Error updating family", err)
	}
	return family, nil
}

// DeleteFamily deactivates the family and all of its children.
func (s *FamilyService) DeleteFamily(parentID string) error {
	family, err := s.GetFamily(parentID)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Family{}).Where("id = ?", family.ID).Update("is_active", false).Error; err != nil {
			return utils.NewServerError("Error deleting family", err)
		}
		if err := tx.Model(&models.Child{}).Where("family_id = ?", family.ID).Update("is_active", false).Error; err != nil {
			return utils.NewServerError("Error deleting family", err)
		}
		return nil
	})
}
