package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is free-text feedback attached 1:1 to an evaluation. Vote counters
// are only ever changed through the vote service's atomic UPDATE; the net
// score is derived, never stored.
type Comment struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Text          string      `gorm:"type:text;not null" json:"text"`
	EvaluationID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"evaluation_id"`
	Evaluation    *Evaluation `gorm:"foreignKey:EvaluationID" json:"-"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PositiveVotes int         `gorm:"not null;default:0" json:"positive_votes"`
	NegativeVotes int         `gorm:"not null;default:0" json:"negative_votes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Score is the comment's net vote count.
func (c *Comment) Score() int {
	return c.PositiveVotes - c.NegativeVotes
}
