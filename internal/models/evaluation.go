package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evaluation is one user's scoring of one professor against one criterion.
// A user may evaluate a (professor, criterion) pair only once; the composite
// unique index is what actually enforces it under concurrent submissions.
type Evaluation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Score       int        `gorm:"not null" json:"score"` // 1..5
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_eval_user_prof_crit" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProfessorID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_eval_user_prof_crit;index" json:"professor_id"`
	Professor   *Professor `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	CriterionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_eval_user_prof_crit;index" json:"criterion_id"`
	Criterion   *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
	CourseID    *uuid.UUID `gorm:"type:uuid;index" json:"course_id"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Comment     *Comment   `gorm:"foreignKey:EvaluationID" json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Evaluation) TableName() string { return "evaluations" }

func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
