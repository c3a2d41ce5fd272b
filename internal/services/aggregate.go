package services

import (
	"context"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AggregateService computes professor averages and top comments from the
// evaluation set. Results are cached through the explicit Cache and
// invalidated write-through when a new evaluation lands (see
// EvaluationService.Create), not just left to expire.
type AggregateService struct {
	db    *gorm.DB
	cache Cache
}

func NewAggregateService(db *gorm.DB, cache Cache) *AggregateService {
	return &AggregateService{db: db, cache: cache}
}

// Average is a rounded mean plus a presence flag. HasData is false when no
// evaluation matched; Value is then zero. Keeping the flag explicit is what
// lets callers tell "no data" apart from "averaged to zero".
type Average struct {
	Value   float64 `json:"value"`
	HasData bool    `json:"has_data"`
}

// CriterionAggregate is one criterion's slice of a professor detail view.
type CriterionAggregate struct {
	CriterionID   uuid.UUID    `json:"criterion_id"`
	CriterionName string       `json:"criterion_name"`
	Average       *float64     `json:"average"`
	TopComment    *CommentView `json:"top_comment,omitempty"`
}

// ProfessorDetailView composes identity fields with the aggregates.
type ProfessorDetailView struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Department   string               `json:"department"`
	AverageScore *float64             `json:"average_score"`
	Criteria     []CriterionAggregate `json:"criteria"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// scoreTotals carries SUM and COUNT of a score query; the mean is computed
// and rounded in integer arithmetic rather than from a float AVG, because a
// mean like 4.005 has no exact float64 and would round down after scaling.
type scoreTotals struct {
	Total int64
	N     int64
}

// roundAverage returns sum/count rounded half-up to 2 decimal places.
// Sums are non-negative here (scores are 1..5).
func roundAverage(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	hundredths := (200*sum + count) / (2 * count)
	return float64(hundredths) / 100
}

func overallKey(professorID uuid.UUID) string {
	return "professor:avg:" + professorID.String()
}

func criterionKey(professorID, criterionID uuid.UUID) string {
	return "professor:avg:" + professorID.String() + ":criterion:" + criterionID.String()
}

func detailKey(professorID uuid.UUID) string {
	return "professor:detail:" + professorID.String()
}

// InvalidateProfessor drops every cached aggregate for a professor. The
// criterion-scoped key is only known when the write names a criterion.
func (s *AggregateService) InvalidateProfessor(ctx context.Context, professorID uuid.UUID, criterionID *uuid.UUID) {
	keys := []string{overallKey(professorID), detailKey(professorID)}
	if criterionID != nil {
		keys = append(keys, criterionKey(professorID, *criterionID))
	}
	s.cache.Delete(ctx, keys...)
}

// OverallAverage computes the mean of all evaluation scores for a professor,
// rounded half-up to 2 decimals. A professor with zero evaluations yields
// the zero value with HasData false, not an error.
func (s *AggregateService) OverallAverage(ctx context.Context, professorID uuid.UUID) (*Average, error) {
	if err := s.requireProfessor(ctx, professorID); err != nil {
		return nil, err
	}

	key := overallKey(professorID)
	var cached Average
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var totals scoreTotals
	if err := s.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Select("COALESCE(SUM(score), 0) AS total, COUNT(*) AS n").
		Where("professor_id = ?", professorID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	result := Average{}
	if totals.N > 0 {
		result = Average{Value: roundAverage(totals.Total, totals.N), HasData: true}
	}
	s.cache.Set(ctx, key, result)
	return &result, nil
}

// CriterionAverage is OverallAverage restricted to one criterion.
func (s *AggregateService) CriterionAverage(ctx context.Context, professorID, criterionID uuid.UUID) (*Average, error) {
	if err := s.requireProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	var criterionCount int64
	if err := s.db.WithContext(ctx).Model(&models.Criterion{}).Where("id = ?", criterionID).Count(&criterionCount).Error; err != nil {
		return nil, err
	}
	if criterionCount == 0 {
		return nil, response.NewNotFound("criterion not found")
	}

	key := criterionKey(professorID, criterionID)
	var cached Average
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.criterionAverage(ctx, professorID, criterionID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, *result)
	return result, nil
}

func (s *AggregateService) criterionAverage(ctx context.Context, professorID, criterionID uuid.UUID) (*Average, error) {
	var totals scoreTotals
	if err := s.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Select("COALESCE(SUM(score), 0) AS total, COUNT(*) AS n").
		Where("professor_id = ? AND criterion_id = ?", professorID, criterionID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	if totals.N == 0 {
		return &Average{}, nil
	}
	return &Average{Value: roundAverage(totals.Total, totals.N), HasData: true}, nil
}

// TopComment returns the comment with the highest net score for a
// (professor, criterion) pair, ties broken by most recent creation. Returns
// nil when no comment exists, which is distinct from a comment at score 0.
func (s *AggregateService) TopComment(ctx context.Context, professorID, criterionID uuid.UUID) (*CommentView, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Joins("JOIN evaluations ON evaluations.id = comments.evaluation_id").
		Where("evaluations.professor_id = ? AND evaluations.criterion_id = ?", professorID, criterionID).
		Order("(comments.positive_votes - comments.negative_votes) DESC, comments.created_at DESC").
		Limit(1).
		Preload("User").
		Preload("Evaluation").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, nil
	}

	var courseID *uuid.UUID
	if comments[0].Evaluation != nil {
		courseID = comments[0].Evaluation.CourseID
	}
	view := toCommentView(&comments[0], courseID)
	return &view, nil
}

// ProfessorDetail builds the full aggregate view: overall average,
// per-criterion averages and the top comment per criterion. The per-criterion
// fan-out is one query pair per criterion.
func (s *AggregateService) ProfessorDetail(ctx context.Context, professorID uuid.UUID) (*ProfessorDetailView, error) {
	var professor models.Professor
	if err := s.db.WithContext(ctx).First(&professor, "id = ?", professorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NewNotFound("professor not found")
		}
		return nil, err
	}

	key := detailKey(professorID)
	var cached ProfessorDetailView
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	detail := ProfessorDetailView{
		ID:         professor.ID,
		Name:       professor.Name,
		Email:      professor.Email,
		Department: professor.Department,
		CreatedAt:  professor.CreatedAt,
		UpdatedAt:  professor.UpdatedAt,
	}

	overall, err := s.OverallAverage(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if overall.HasData {
		v := overall.Value
		detail.AverageScore = &v
	}

	var criteria []models.Criterion
	if err := s.db.WithContext(ctx).Order("name").Find(&criteria).Error; err != nil {
		return nil, err
	}

	for _, criterion := range criteria {
		agg := CriterionAggregate{
			CriterionID:   criterion.ID,
			CriterionName: criterion.Name,
		}

		avg, err := s.criterionAverage(ctx, professorID, criterion.ID)
		if err != nil {
			return nil, err
		}
		if avg.HasData {
			v := avg.Value
			agg.Average = &v
		}

		top, err := s.TopComment(ctx, professorID, criterion.ID)
		if err != nil {
			return nil, err
		}
		agg.TopComment = top

		detail.Criteria = append(detail.Criteria, agg)
	}

	s.cache.Set(ctx, key, detail)
	return &detail, nil
}

func (s *AggregateService) requireProfessor(ctx context.Context, professorID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Professor{}).
		Where("id = ?", professorID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return response.NewNotFound("professor not found")
	}
	return nil
}
