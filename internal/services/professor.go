package services

import (
	"context"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfessorService is the admin-facing catalog CRUD plus the public listing
// with averages.
type ProfessorService struct {
	db         *gorm.DB
	aggregates *AggregateService
}

func NewProfessorService(db *gorm.DB, aggregates *AggregateService) *ProfessorService {
	return &ProfessorService{db: db, aggregates: aggregates}
}

type ProfessorRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Department string `json:"department"`
}

// ProfessorSummary is the list-item shape: identity plus overall average.
type ProfessorSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	AverageScore *float64  `json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProfessorListRequest struct {
	Name string `form:"name"`
	Top  int    `form:"top" binding:"omitempty,min=1,max=100"`
}

func (s *ProfessorService) toSummary(ctx context.Context, p *models.Professor) (*ProfessorSummary, error) {
	summary := ProfessorSummary{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	avg, err := s.aggregates.OverallAverage(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if avg.HasData {
		v := avg.Value
		summary.AverageScore = &v
	}
	return &summary, nil
}

// List returns professors with their overall averages. A name filter matches
// case-insensitively; top returns the N best-rated professors instead.
func (s *ProfessorService) List(ctx context.Context, req *ProfessorListRequest) ([]ProfessorSummary, error) {
	db := s.db.WithContext(ctx)

	if req.Top > 0 {
		return s.topN(ctx, req.Top)
	}

	query := db.Model(&models.Professor{}).Order("name")
	if req.Name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+req.Name+"%")
	}

	var professors []models.Professor
	if err := query.Find(&professors).Error; err != nil {
		return nil, err
	}

	summaries := make([]ProfessorSummary, 0, len(professors))
	for i := range professors {
		summary, err := s.toSummary(ctx, &professors[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// topN ranks professors by overall average score. Professors without any
// evaluation are excluded, matching the grouping join.
func (s *ProfessorService) topN(ctx context.Context, n int) ([]ProfessorSummary, error) {
	type row struct {
		ID         uuid.UUID
		Name       string
		Email      string
		Department string
		Total      int64
		N          int64
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Professor{}).
		Select("professors.id, professors.name, professors.email, professors.department, " +
			"SUM(evaluations.score) AS total, COUNT(evaluations.id) AS n, " +
			"professors.created_at, professors.updated_at").
		Joins("JOIN evaluations ON evaluations.professor_id = professors.id").
		Group("professors.id, professors.name, professors.email, professors.department, professors.created_at, professors.updated_at").
		Order("(SUM(evaluations.score) * 1.0 / COUNT(evaluations.id)) DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ProfessorSummary, 0, len(rows))
	for _, r := range rows {
		avg := roundAverage(r.Total, r.N)
		summaries = append(summaries, ProfessorSummary{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Department:   r.Department,
			AverageScore: &avg,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return summaries, nil
}

// GetByID returns a professor without aggregates; the detail view with
// averages lives on AggregateService.ProfessorDetail.
func (s *ProfessorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Professor, error) {
	var professor models.Professor
	if err := s.db.WithContext(ctx).First(&professor, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("professor not found")
		}
		return nil, err
	}
	return &professor, nil
}

func (s *ProfessorService) Create(ctx context.Context, req *ProfessorRequest) (*models.Professor, error) {
	db := s.db.WithContext(ctx)

	if req.Email != "" {
		var count int64
		if err := db.Model(&models.Professor{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, response.NewConflict("professor email already in use")
		}
	}

	professor := models.Professor{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}
	if err := db.Create(&professor).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, response.NewConflict("professor email already in use")
		}
		return nil, err
	}
	return &professor, nil
}

func (s *ProfessorService) Update(ctx context.Context, id uuid.UUID, req *ProfessorRequest) (*models.Professor, error) {
	db := s.db.WithContext(ctx)

	var professor models.Professor
	if err := db.First(&professor, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("professor not found")
		}
		return nil, err
	}

	if req.Email != "" && req.Email != professor.Email {
		var count int64
		if err := db.Model(&models.Professor{}).Where("email = ? AND id <> ?", req.Email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, response.NewConflict("professor email already in use")
		}
	}

	professor.Name = req.Name
	professor.Email = req.Email
	professor.Department = req.Department
	if err := db.Save(&professor).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, response.NewConflict("professor email already in use")
		}
		return nil, err
	}

	s.aggregates.InvalidateProfessor(ctx, id, nil)
	return &professor, nil
}

func (s *ProfessorService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Professor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("professor not found")
	}
	s.aggregates.InvalidateProfessor(ctx, id, nil)
	return nil
}
