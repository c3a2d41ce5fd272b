package services

import (
	"context"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseService manages the course catalog used by the comment course filter.
type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

type CourseRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=255"`
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("code").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Create(ctx context.Context, req *CourseRequest) (*models.Course, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Course{}).Where("code = ?", req.Code).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("a course with code '" + req.Code + "' already exists")
	}

	course := models.Course{
		Code: req.Code,
		Name: req.Name,
	}
	if err := db.Create(&course).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, response.NewConflict("a course with code '" + req.Code + "' already exists")
		}
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("course not found")
	}
	return nil
}
