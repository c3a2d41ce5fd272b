package services

import (
	"path/filepath"
	"testing"

	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database for one test. A file-backed DB
// with a busy timeout and immediate transactions is required for the
// concurrency tests; :memory: gives every connection its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Professor{},
		&models.Criterion{},
		&models.Course{},
		&models.Evaluation{},
		&models.Comment{},
		&models.CommentVote{},
		&models.SystemLog{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.edu",
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createTestProfessor(t *testing.T, db *gorm.DB, name string) *models.Professor {
	t.Helper()
	professor := &models.Professor{
		Name:       name,
		Email:      name + "@faculty.example.edu",
		Department: "Computer Science",
	}
	if err := db.Create(professor).Error; err != nil {
		t.Fatalf("failed to create professor %s: %v", name, err)
	}
	return professor
}

func createTestCriterion(t *testing.T, db *gorm.DB, name string) *models.Criterion {
	t.Helper()
	criterion := &models.Criterion{Name: name}
	if err := db.Create(criterion).Error; err != nil {
		t.Fatalf("failed to create criterion %s: %v", name, err)
	}
	return criterion
}

func createTestCourse(t *testing.T, db *gorm.DB, code string) *models.Course {
	t.Helper()
	course := &models.Course{Code: code, Name: "Course " + code}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("failed to create course %s: %v", code, err)
	}
	return course
}

// createTestEvaluation inserts an evaluation directly, optionally with a
// comment, bypassing the service layer. Returns the comment when text is
// non-empty.
func createTestEvaluation(t *testing.T, db *gorm.DB, userID, professorID, criterionID uuid.UUID, score int, commentText string) (*models.Evaluation, *models.Comment) {
	t.Helper()
	evaluation := &models.Evaluation{
		Score:       score,
		UserID:      userID,
		ProfessorID: professorID,
		CriterionID: criterionID,
	}
	if err := db.Create(evaluation).Error; err != nil {
		t.Fatalf("failed to create evaluation: %v", err)
	}

	if commentText == "" {
		return evaluation, nil
	}

	comment := &models.Comment{
		Text:         commentText,
		EvaluationID: evaluation.ID,
		UserID:       userID,
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return evaluation, comment
}
