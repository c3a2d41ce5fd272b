package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentVote records one user's single vote on one comment. Rows are
// immutable: votes cannot be changed or retracted. The composite unique
// index is the idempotency guarantee; a concurrent duplicate insert fails at
// the storage layer and is mapped to a conflict by the vote service.
type CommentVote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IsPositive bool      `gorm:"not null" json:"is_positive"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CommentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_comment;index" json:"comment_id"`
	Comment    *Comment  `gorm:"foreignKey:CommentID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CommentVote) TableName() string { return "comment_votes" }

func (v *CommentVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
