package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Professor is a member of staff that students evaluate.
type Professor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null;index" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex" json:"email"`
	Department string    `gorm:"size:255" json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Professor) TableName() string { return "professors" }

func (p *Professor) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
