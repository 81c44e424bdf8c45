package services

import (
	"fmt"
	"mime/multipart"

	"nestory-backend/models"
	"nestory-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxChildrenPerFamily = 6

// ChildService manages child profiles inside a family.
type ChildService struct {
	DB *gorm.DB
}

func NewChildService(db *gorm.DB) *ChildService {
	return &ChildService{DB: db}
}

// AddChild creates a child profile in the parent's family.
func (s *ChildService) AddChild(parentID, name string, age int) (*models.Child, error) {
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}
	if age < 3 || age > 17 {
		return nil, utils.NewValidationError("age must be between 3 and 17")
	}

	var family models.Family
	if err := s.DB.First(&family, "parent_id = ?", parentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Family not found, create a family first")
		}
		return nil, utils.NewServerError("Error adding child", err)
	}

	var count int64
	if err := s.DB.Model(&models.Child{}).
		Where("family_id = ? AND is_active = ?", family.ID, true).
		Count(&count).Error; err != nil {
		return nil, utils.NewServerError("Error adding child", err)
	}
	if count >= maxChildrenPerFamily {
		return nil, utils.NewValidationError(fmt.Sprintf("A family can have at most %d children", maxChildrenPerFamily))
	}

	child := &models.Child{
		ID:       uuid.NewString(),
		Name:     name,
		Age:      age,
		FamilyID: family.ID,
		ParentID: parentID,
		IsActive: true,
	}
	if err := s.DB.Create(child).Error; err != nil {
		return nil, utils.NewServerError("Error adding child", err)
	}
	return child, nil
}

// GetChild loads one of the parent's active children. Ownership is enforced
// here so handlers never leak another family's profiles.
func (s *ChildService) GetChild(parentID, childID string) (*models.Child, error) {
	var child models.Child
	err := s.DB.First(&child, "id = ? AND parent_id = ? AND is_active = ?", childID, parentID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFoundError("Child not found")
		}
		return nil, utils.NewServerError("Error fetching child", err)
	}
	return &child, nil
}

// ListChildren returns the parent's active children.
func (s *ChildService) ListChildren(parentID string) ([]models.Child, error) {
	var children []models.Child
	err := s.DB.
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("created_at ASC").
		Find(&children).Error
	if err != nil {
		return nil, utils.NewServerError("Error fetching children", err)
	}
	return children, nil
}

// UpdateChild applies partial updates to a child profile.
func (s *ChildService) UpdateChild(parentID, childID string, name string, age *int) (*models.Child, error) {
	child, err := s.GetChild(parentID, childID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		child.Name = name
	}
	if age != nil {
		if *age < 3 || *age > 17 {
			return nil, utils.NewValidationError("age must be between 3 and 17")
		}
		child.Age = *age
	}
	if err := s.DB.Save(child).Error; err != nil {
		return nil, utils.NewServerError("Error updating child", err)
	}
	return child, nil
}

// UploadAvatar stores a new avatar image and records its public URL.
func (s *ChildService) UploadAvatar(parentID, childID string, file *multipart.FileHeader) (*models.Child, error) {
	child, err := s.GetChild(parentID, childID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s", child.ID, uuid.NewString())
	url, err := utils.UploadFile(file, key)
	if err != nil {
		return nil, utils.NewServerError("Error uploading avatar", err)
	}

	child.Avatar = url
	if err := s.DB.Save(child).Error; err != nil {
		return nil, utils.NewServerError("Error updating child", err)
	}
	return child, nil
}

// RemoveChild deactivates a child profile.
func (s *ChildService) RemoveChild(parentID, childID string) error {
	child, err := s.GetChild(parentID, childID)
	if err != nil {
		return err
	}
	child.IsActive = false
	if err := s.DB.Save(child).Error; err != nil {
		return utils.NewServerError("Error removing child", err)
	}
	return nil
}
