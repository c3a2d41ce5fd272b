package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Criterion is a named axis of evaluation (clarity, fairness, ...).
type Criterion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Criterion) TableName() string { return "criteria" }

func (c *Criterion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
