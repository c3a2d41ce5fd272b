package services

import (
	"context"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CriterionService manages the evaluation criteria catalog.
type CriterionService struct {
	db *gorm.DB
}

func NewCriterionService(db *gorm.DB) *CriterionService {
	return &CriterionService{db: db}
}

type CriterionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

func (s *CriterionService) List(ctx context.Context) ([]models.Criterion, error) {
	var criteria []models.Criterion
	if err := s.db.WithContext(ctx).Order("name").Find(&criteria).Error; err != nil {
		return nil, err
	}
	return criteria, nil
}

func (s *CriterionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Criterion, error) {
	var criterion models.Criterion
	if err := s.db.WithContext(ctx).First(&criterion, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("criterion not found")
		}
		return nil, err
	}
	return &criterion, nil
}

func (s *CriterionService) Create(ctx context.Context, req *CriterionRequest) (*models.Criterion, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Criterion{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("a criterion named '" + req.Name + "' already exists")
	}

	criterion := models.Criterion{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := db.Create(&criterion).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, response.NewConflict("a criterion named '" + req.Name + "' already exists")
		}
		return nil, err
	}
	return &criterion, nil
}

func (s *CriterionService) Update(ctx context.Context, id uuid.UUID, req *CriterionRequest) (*models.Criterion, error) {
	db := s.db.WithContext(ctx)

	var criterion models.Criterion
	if err := db.First(&criterion, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("criterion not found")
		}
		return nil, err
	}

	if req.Name != criterion.Name {
		var count int64
		if err := db.Model(&models.Criterion{}).Where("name = ? AND id <> ?", req.Name, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, response.NewConflict("a criterion named '" + req.Name + "' already exists")
		}
	}

	criterion.Name = req.Name
	criterion.Description = req.Description
	if err := db.Save(&criterion).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, response.NewConflict("a criterion named '" + req.Name + "' already exists")
		}
		return nil, err
	}
	return &criterion, nil
}

func (s *CriterionService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Criterion{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("criterion not found")
	}
	return nil
}
