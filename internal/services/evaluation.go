package services

import (
	"context"
	"strings"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/logger"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationService records evaluations. An evaluation is write-once: no
// update or delete path exists, and the (user, professor, criterion) unique
// index backs the duplicate check under concurrency.
type EvaluationService struct {
	db         *gorm.DB
	aggregates *AggregateService
}

func NewEvaluationService(db *gorm.DB, aggregates *AggregateService) *EvaluationService {
	return &EvaluationService{db: db, aggregates: aggregates}
}

type CreateEvaluationRequest struct {
	Score       int    `json:"score" binding:"required,min=1,max=5"`
	CommentText string `json:"comment_text"`
	CourseID    string `json:"course_id" binding:"omitempty,uuid"`
}

type EvaluationView struct {
	ID          uuid.UUID  `json:"id"`
	Score       int        `json:"score"`
	UserID      uuid.UUID  `json:"user_id"`
	ProfessorID uuid.UUID  `json:"professor_id"`
	CriterionID uuid.UUID  `json:"criterion_id"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	CommentID   *uuid.UUID `json:"comment_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEvaluationView(e *models.Evaluation) EvaluationView {
	view := EvaluationView{
		ID:          e.ID,
		Score:       e.Score,
		UserID:      e.UserID,
		ProfessorID: e.ProfessorID,
		CriterionID: e.CriterionID,
		CourseID:    e.CourseID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Comment != nil {
		id := e.Comment.ID
		view.CommentID = &id
	}
	return view
}

// Create records a new evaluation for a professor on a criterion, with an
// optional attached comment, then invalidates the professor's cached
// aggregates so readers see the new score on the next request.
func (s *EvaluationService) Create(ctx context.Context, professorID, criterionID, userID uuid.UUID, req *CreateEvaluationRequest) (*EvaluationView, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var professor models.Professor
	if err := db.First(&professor, "id = ?", professorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("professor not found")
		}
		return nil, err
	}

	var criterion models.Criterion
	if err := db.First(&criterion, "id = ?", criterionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("criterion not found")
		}
		return nil, err
	}

	var courseID *uuid.UUID
	if req.CourseID != "" {
		parsed, err := uuid.Parse(req.CourseID)
		if err != nil {
			return nil, response.NewValidation("invalid course id")
		}
		var course models.Course
		if err := db.First(&course, "id = ?", parsed).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, response.NewNotFound("course not found")
			}
			return nil, err
		}
		courseID = &parsed
	}

	var existing int64
	if err := db.Model(&models.Evaluation{}).
		Where("user_id = ? AND professor_id = ? AND criterion_id = ?", userID, professorID, criterionID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, response.NewConflict("you already evaluated this professor on this criterion")
	}

	evaluation := models.Evaluation{
		Score:       req.Score,
		UserID:      userID,
		ProfessorID: professorID,
		CriterionID: criterionID,
		CourseID:    courseID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&evaluation).Error; err != nil {
			if isUniqueViolation(err) {
				return response.NewConflict("you already evaluated this professor on this criterion")
			}
			return err
		}

		if text := strings.TrimSpace(req.CommentText); text != "" {
			comment := models.Comment{
				Text:         text,
				EvaluationID: evaluation.ID,
				UserID:       userID,
			}
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			evaluation.Comment = &comment
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.aggregates.InvalidateProfessor(ctx, professorID, &criterionID)

	LogInfo("evaluation", "create", "evaluation recorded", &userID, "", "", map[string]interface{}{
		"professor_id": professorID.String(),
		"criterion_id": criterionID.String(),
		"score":        req.Score,
	})
	logger.Info().
		Str("professor_id", professorID.String()).
		Str("criterion_id", criterionID.String()).
		Int("score", req.Score).
		Msg("evaluation recorded")

	view := toEvaluationView(&evaluation)
	return &view, nil
}

// ListByProfessor returns every evaluation recorded for a professor, newest
// first, with attached comments.
func (s *EvaluationService) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]EvaluationView, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Professor{}).Where("id = ?", professorID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, response.NewNotFound("professor not found")
	}

	var evaluations []models.Evaluation
	if err := s.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Preload("Comment").
		Order("created_at DESC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	views := make([]EvaluationView, 0, len(evaluations))
	for i := range evaluations {
		views = append(views, toEvaluationView(&evaluations[i]))
	}
	return views, nil
}
