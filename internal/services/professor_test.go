package services

import (
	"context"
	"testing"

	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newProfessorService(t *testing.T, db *gorm.DB) *ProfessorService {
	return NewProfessorService(db, NewAggregateService(db, newTestCache(t)))
}

func TestProfessorList_NameFilter(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)
	createTestProfessor(t, db, "Ana Silva")
	createTestProfessor(t, db, "Bruno Costa")
	createTestProfessor(t, db, "Silvana Rocha")

	summaries, err := service.List(context.Background(), &ProfessorListRequest{Name: "silva"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "silva", len(summaries))
	}
	// Ordered by name.
	if summaries[0].Name != "Ana Silva" || summaries[1].Name != "Silvana Rocha" {
		t.Errorf("unexpected order: %q, %q", summaries[0].Name, summaries[1].Name)
	}
}

func TestProfessorList_IncludesAverages(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)
	rated := createTestProfessor(t, db, "Ana Silva")
	createTestProfessor(t, db, "Bruno Costa")
	criterion := createTestCriterion(t, db, "Clarity")
	seedScores(t, db, rated.ID, criterion.ID, 5, 4)

	summaries, err := service.List(context.Background(), &ProfessorListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 professors, got %d", len(summaries))
	}

	for _, s := range summaries {
		switch s.Name {
		case "Ana Silva":
			if s.AverageScore == nil || *s.AverageScore != 4.5 {
				t.Errorf("Ana Silva average = %v, expected 4.5", s.AverageScore)
			}
		case "Bruno Costa":
			if s.AverageScore != nil {
				t.Errorf("unrated professor should have nil average, got %v", *s.AverageScore)
			}
		}
	}
}

func TestProfessorList_TopN(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)
	criterion := createTestCriterion(t, db, "Clarity")

	best := createTestProfessor(t, db, "Best Prof")
	seedScores(t, db, best.ID, criterion.ID, 5, 5)
	middle := createTestProfessor(t, db, "Middle Prof")
	seedScores(t, db, middle.ID, criterion.ID, 3, 4)
	worst := createTestProfessor(t, db, "Worst Prof")
	seedScores(t, db, worst.ID, criterion.ID, 1, 2)
	createTestProfessor(t, db, "Unrated Prof")

	summaries, err := service.List(context.Background(), &ProfessorListRequest{Top: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 top professors, got %d", len(summaries))
	}
	if summaries[0].Name != "Best Prof" || summaries[1].Name != "Middle Prof" {
		t.Errorf("ranking wrong: %q, %q", summaries[0].Name, summaries[1].Name)
	}
	if summaries[0].AverageScore == nil || *summaries[0].AverageScore != 5.00 {
		t.Errorf("top average = %v, expected 5.00", summaries[0].AverageScore)
	}
}

func TestProfessorCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)

	if _, err := service.Create(context.Background(), &ProfessorRequest{Name: "Ana Silva", Email: "ana@example.edu"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := service.Create(context.Background(), &ProfessorRequest{Name: "Other", Email: "ana@example.edu"})
	if !response.IsConflict(err) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestProfessorUpdate(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)
	professor := createTestProfessor(t, db, "Ana Silva")

	updated, err := service.Update(context.Background(), professor.ID, &ProfessorRequest{
		Name:       "Ana Silva-Costa",
		Email:      professor.Email,
		Department: "Mathematics",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Ana Silva-Costa" || updated.Department != "Mathematics" {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestProfessorUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)

	_, err := service.Update(context.Background(), uuid.New(), &ProfessorRequest{Name: "Nobody"})
	if !response.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestProfessorDelete(t *testing.T) {
	db := newTestDB(t)
	service := newProfessorService(t, db)
	professor := createTestProfessor(t, db, "Ana Silva")

	if err := service.Delete(context.Background(), professor.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := service.GetByID(context.Background(), professor.ID); !response.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	if err := service.Delete(context.Background(), professor.ID); !response.IsNotFound(err) {
		t.Errorf("expected not-found for repeat delete, got %v", err)
	}
}
