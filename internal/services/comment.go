package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/logger"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote directions accepted by the API.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Recency windows accepted by the comment listing.
const (
	WindowLastWeek     = "last-week"
	WindowLastMonth    = "last-month"
	WindowLastSemester = "last-semester"
	WindowLastYear     = "last-year"
)

// CommentService is the vote ledger: it records at most one vote per
// (user, comment) pair and keeps the comment's counters in step, and it
// serves the filtered, paginated comment listings. It holds the cache so a
// vote can drop the professor-detail entry, which embeds vote counters and
// top comments.
type CommentService struct {
	db    *gorm.DB
	cache Cache
}

func NewCommentService(db *gorm.DB, cache Cache) *CommentService {
	return &CommentService{db: db, cache: cache}
}

// VoteRequest is the body of the vote endpoint.
type VoteRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// VoteCounts is the tally returned after a successful vote.
type VoteCounts struct {
	PositiveVotes int `json:"positive_votes"`
	NegativeVotes int `json:"negative_votes"`
}

// CommentView is the read shape for a comment.
type CommentView struct {
	ID            uuid.UUID  `json:"id"`
	Text          string     `json:"text"`
	UserID        uuid.UUID  `json:"user_id"`
	Username      string     `json:"username"`
	Score         int        `json:"score"`
	PositiveVotes int        `json:"positive_votes"`
	NegativeVotes int        `json:"negative_votes"`
	CourseID      *uuid.UUID `json:"course_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toCommentView(c *models.Comment, courseID *uuid.UUID) CommentView {
	view := CommentView{
		ID:            c.ID,
		Text:          c.Text,
		UserID:        c.UserID,
		Score:         c.Score(),
		PositiveVotes: c.PositiveVotes,
		NegativeVotes: c.NegativeVotes,
		CourseID:      courseID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.User != nil {
		view.Username = c.User.Username
	}
	return view
}

// Vote records one user's vote on a comment and returns the updated tally.
//
// The (user_id, comment_id) unique index is the real idempotency guarantee:
// the pre-check only exists to give the common duplicate a friendly error
// without burning an insert. Two same-user requests racing past the check
// both reach the insert, and the storage engine fails the second one, which
// is mapped to the same conflict. The counter bump is a server-side
// arithmetic UPDATE so concurrent votes from different users never lose
// updates. The whole sequence runs serializable.
func (s *CommentService) Vote(ctx context.Context, commentID, voterID uuid.UUID, direction string) (*VoteCounts, error) {
	if direction != VoteUp && direction != VoteDown {
		return nil, response.NewValidation("invalid vote direction: " + direction)
	}

	var counts VoteCounts
	var professorID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var voter models.User
		if err := tx.First(&voter, "id = ?", voterID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NewNotFound("user not found")
			}
			return err
		}

		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NewNotFound("comment not found")
			}
			return err
		}

		var evaluation models.Evaluation
		if err := tx.Select("professor_id").First(&evaluation, "id = ?", comment.EvaluationID).Error; err != nil {
			return err
		}
		professorID = evaluation.ProfessorID

		var existing int64
		if err := tx.Model(&models.CommentVote{}).
			Where("user_id = ? AND comment_id = ?", voterID, commentID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return response.NewConflict("you already voted on this comment")
		}

		vote := models.CommentVote{
			IsPositive: direction == VoteUp,
			UserID:     voterID,
			CommentID:  commentID,
		}
		if err := tx.Create(&vote).Error; err != nil {
			if isUniqueViolation(err) {
				return response.NewConflict("you already voted on this comment")
			}
			return err
		}

		column := "positive_votes"
		if direction == VoteDown {
			column = "negative_votes"
		}
		// Counters never go below zero.
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn(column, gorm.Expr(
				"CASE WHEN "+column+" + 1 < 0 THEN 0 ELSE "+column+" + 1 END",
			)).Error; err != nil {
			return err
		}

		var updated models.Comment
		if err := tx.First(&updated, "id = ?", commentID).Error; err != nil {
			return err
		}
		counts = VoteCounts{
			PositiveVotes: updated.PositiveVotes,
			NegativeVotes: updated.NegativeVotes,
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	// The cached professor detail embeds tallies and top comments, so it is
	// stale as of this vote. Averages only depend on evaluations and stay.
	s.cache.Delete(ctx, detailKey(professorID))

	logger.Info().
		Str("comment_id", commentID.String()).
		Str("user_id", voterID.String()).
		Str("direction", direction).
		Msg("vote recorded")
	return &counts, nil
}

// CommentListRequest carries the listing filters.
type CommentListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
	Window   string `form:"window"`
	Sort     string `form:"sort" binding:"omitempty,oneof=asc desc"`
}

type CommentListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []CommentView `json:"items"`
}

// windowCutoff maps a recency keyword onto a cutoff timestamp relative to
// now. Empty means no cutoff.
func windowCutoff(window string, now time.Time) (*time.Time, error) {
	var cutoff time.Time
	switch window {
	case "":
		return nil, nil
	case WindowLastWeek:
		cutoff = now.AddDate(0, 0, -7)
	case WindowLastMonth:
		cutoff = now.AddDate(0, -1, 0)
	case WindowLastSemester:
		cutoff = now.AddDate(0, -6, 0)
	case WindowLastYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return nil, response.NewValidation("invalid recency window: " + window)
	}
	return &cutoff, nil
}

// List returns one page of comments for a (professor, criterion) pair,
// optionally narrowed by course and recency window. Ordering is by net score
// with creation time as the deterministic tie-break, so pages stay disjoint
// and order-consistent across requests.
func (s *CommentService) List(ctx context.Context, professorID, criterionID uuid.UUID, req *CommentListRequest) (*CommentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	db := s.db.WithContext(ctx)

	var professorCount int64
	if err := db.Model(&models.Professor{}).Where("id = ?", professorID).Count(&professorCount).Error; err != nil {
		return nil, err
	}
	if professorCount == 0 {
		return nil, response.NewNotFound("professor not found")
	}
	var criterionCount int64
	if err := db.Model(&models.Criterion{}).Where("id = ?", criterionID).Count(&criterionCount).Error; err != nil {
		return nil, err
	}
	if criterionCount == 0 {
		return nil, response.NewNotFound("criterion not found")
	}

	cutoff, err := windowCutoff(req.Window, time.Now())
	if err != nil {
		return nil, err
	}

	query := db.Model(&models.Comment{}).
		Joins("JOIN evaluations ON evaluations.id = comments.evaluation_id").
		Where("evaluations.professor_id = ? AND evaluations.criterion_id = ?", professorID, criterionID)

	if req.CourseID != "" {
		courseID, parseErr := uuid.Parse(req.CourseID)
		if parseErr != nil {
			return nil, response.NewValidation("invalid course id")
		}
		query = query.Where("evaluations.course_id = ?", courseID)
	}
	if cutoff != nil {
		query = query.Where("comments.created_at >= ?", *cutoff)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	order := "(comments.positive_votes - comments.negative_votes) DESC, comments.created_at DESC"
	if req.Sort == "asc" {
		order = "(comments.positive_votes - comments.negative_votes) ASC, comments.created_at DESC"
	}

	var comments []models.Comment
	offset := (req.Page - 1) * req.PageSize
	if err := query.
		Preload("User").
		Preload("Evaluation").
		Order(order).
		Offset(offset).
		Limit(req.PageSize).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	items := make([]CommentView, 0, len(comments))
	for i := range comments {
		var courseID *uuid.UUID
		if comments[i].Evaluation != nil {
			courseID = comments[i].Evaluation.CourseID
		}
		items = append(items, toCommentView(&comments[i], courseID))
	}

	return &CommentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}
