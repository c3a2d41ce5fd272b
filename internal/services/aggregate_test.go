package services

import (
	"context"
	"testing"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/config"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	cache := NewCache(&config.CacheConfig{TTLSeconds: 300})
	t.Cleanup(cache.Stop)
	return cache
}

func seedScores(t *testing.T, db *gorm.DB, professorID, criterionID uuid.UUID, scores ...int) {
	t.Helper()
	for _, score := range scores {
		user := createTestUser(t, db, "scorer-"+uuid.NewString()[:13])
		createTestEvaluation(t, db, user.ID, professorID, criterionID, score, "")
	}
}

func TestOverallAverage_RoundsHalfUp(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	seedScores(t, db, professor.ID, criterion.ID, 5, 3, 4)

	avg, err := service.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if !avg.HasData {
		t.Fatal("expected HasData for evaluated professor")
	}
	if avg.Value != 4.00 {
		t.Errorf("average = %v, expected 4.00", avg.Value)
	}
}

func TestOverallAverage_TwoDecimals(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	// mean of {5, 4, 4} = 4.333... -> 4.33
	seedScores(t, db, professor.ID, criterion.ID, 5, 4, 4)

	avg, err := service.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if avg.Value != 4.33 {
		t.Errorf("average = %v, expected 4.33", avg.Value)
	}
}

func TestOverallAverage_NoEvaluations(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")

	avg, err := service.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if avg.HasData {
		t.Error("expected HasData false for professor with no evaluations")
	}
	if avg.Value != 0 {
		t.Errorf("value = %v, expected 0", avg.Value)
	}
}

func TestOverallAverage_ProfessorNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))

	_, err := service.OverallAverage(context.Background(), uuid.New())
	if !response.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestCriterionAverage(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	clarity := createTestCriterion(t, db, "Clarity")
	fairness := createTestCriterion(t, db, "Fairness")

	seedScores(t, db, professor.ID, clarity.ID, 5, 5)
	seedScores(t, db, professor.ID, fairness.ID, 2)

	avg, err := service.CriterionAverage(context.Background(), professor.ID, clarity.ID)
	if err != nil {
		t.Fatalf("CriterionAverage failed: %v", err)
	}
	if avg.Value != 5.00 || !avg.HasData {
		t.Errorf("clarity average = %+v, expected 5.00 with data", avg)
	}

	avg, err = service.CriterionAverage(context.Background(), professor.ID, fairness.ID)
	if err != nil {
		t.Fatalf("CriterionAverage failed: %v", err)
	}
	if avg.Value != 2.00 {
		t.Errorf("fairness average = %v, expected 2.00", avg.Value)
	}
}

func TestCriterionAverage_CriterionNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")

	_, err := service.CriterionAverage(context.Background(), professor.ID, uuid.New())
	if !response.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestTopComment_HighestNetScore(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	low := createTestUser(t, db, "low")
	_, lowComment := createTestEvaluation(t, db, low.ID, professor.ID, criterion.ID, 3, "low comment")
	db.Model(lowComment).UpdateColumn("positive_votes", 2)
	db.Model(lowComment).UpdateColumn("negative_votes", 1)

	high := createTestUser(t, db, "high")
	_, highComment := createTestEvaluation(t, db, high.ID, professor.ID, criterion.ID, 5, "high comment")
	db.Model(highComment).UpdateColumn("positive_votes", 5)

	top, err := service.TopComment(context.Background(), professor.ID, criterion.ID)
	if err != nil {
		t.Fatalf("TopComment failed: %v", err)
	}
	if top == nil {
		t.Fatal("expected a top comment")
	}
	if top.Text != "high comment" {
		t.Errorf("top comment = %q, expected %q", top.Text, "high comment")
	}
	if top.Score != 5 {
		t.Errorf("top comment score = %d, expected 5", top.Score)
	}
}

func TestTopComment_TieBrokenByRecency(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	older := createTestUser(t, db, "older")
	_, olderComment := createTestEvaluation(t, db, older.ID, professor.ID, criterion.ID, 4, "older comment")
	db.Model(olderComment).UpdateColumn("positive_votes", 3)
	db.Model(olderComment).UpdateColumn("created_at", time.Now().Add(-48*time.Hour))

	newer := createTestUser(t, db, "newer")
	_, newerComment := createTestEvaluation(t, db, newer.ID, professor.ID, criterion.ID, 4, "newer comment")
	db.Model(newerComment).UpdateColumn("positive_votes", 3)

	top, err := service.TopComment(context.Background(), professor.ID, criterion.ID)
	if err != nil {
		t.Fatalf("TopComment failed: %v", err)
	}
	if top == nil || top.Text != "newer comment" {
		t.Errorf("expected tie broken toward newer comment, got %+v", top)
	}
}

func TestTopComment_NoneExists(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	// Evaluation without a comment does not produce a top comment.
	user := createTestUser(t, db, "silent")
	createTestEvaluation(t, db, user.ID, professor.ID, criterion.ID, 4, "")

	top, err := service.TopComment(context.Background(), professor.ID, criterion.ID)
	if err != nil {
		t.Fatalf("TopComment failed: %v", err)
	}
	if top != nil {
		t.Errorf("expected no top comment, got %+v", top)
	}
}

func TestProfessorDetail(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	clarity := createTestCriterion(t, db, "Clarity")
	fairness := createTestCriterion(t, db, "Fairness")

	seedScores(t, db, professor.ID, clarity.ID, 5, 4)

	detail, err := service.ProfessorDetail(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("ProfessorDetail failed: %v", err)
	}

	if detail.Name != "Ana Silva" {
		t.Errorf("name = %q", detail.Name)
	}
	if detail.AverageScore == nil || *detail.AverageScore != 4.5 {
		t.Errorf("overall average = %v, expected 4.5", detail.AverageScore)
	}
	if len(detail.Criteria) != 2 {
		t.Fatalf("expected 2 criterion aggregates, got %d", len(detail.Criteria))
	}

	byName := make(map[string]CriterionAggregate)
	for _, agg := range detail.Criteria {
		byName[agg.CriterionName] = agg
	}
	if agg := byName["Clarity"]; agg.Average == nil || *agg.Average != 4.5 {
		t.Errorf("clarity average = %v, expected 4.5", agg.Average)
	}
	if agg := byName["Fairness"]; agg.Average != nil {
		t.Errorf("fairness average = %v, expected nil (no data)", *agg.Average)
	}
	_ = fairness
}

func TestProfessorDetail_NotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))

	_, err := service.ProfessorDetail(context.Background(), uuid.New())
	if !response.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestAggregates_CacheInvalidation(t *testing.T) {
	db := newTestDB(t)
	cache := newTestCache(t)
	aggregates := NewAggregateService(db, cache)
	evaluations := NewEvaluationService(db, aggregates)
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	first := createTestUser(t, db, "first")
	if _, err := evaluations.Create(context.Background(), professor.ID, criterion.ID, first.ID, &CreateEvaluationRequest{Score: 5}); err != nil {
		t.Fatalf("first evaluation failed: %v", err)
	}

	avg, err := aggregates.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if avg.Value != 5.00 {
		t.Fatalf("average = %v, expected 5.00", avg.Value)
	}

	// A new evaluation must invalidate the cached average, not wait for TTL.
	second := createTestUser(t, db, "second")
	if _, err := evaluations.Create(context.Background(), professor.ID, criterion.ID, second.ID, &CreateEvaluationRequest{Score: 3}); err != nil {
		t.Fatalf("second evaluation failed: %v", err)
	}

	avg, err = aggregates.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if avg.Value != 4.00 {
		t.Errorf("average after invalidation = %v, expected 4.00", avg.Value)
	}
}

func TestRoundAverage(t *testing.T) {
	cases := []struct {
		sum   int64
		count int64
		want  float64
	}{
		{12, 3, 4.00},
		{13, 3, 4.33},
		{14, 3, 4.67},
		{25, 8, 3.13},  // 3.125 rounds up
		{801, 200, 4.01}, // 4.005 has no exact float64; integer math still rounds up
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := roundAverage(tc.sum, tc.count); got != tc.want {
			t.Errorf("roundAverage(%d, %d) = %v, expected %v", tc.sum, tc.count, got, tc.want)
		}
	}
}

func TestCriterionAverage_StorageErrorSurfaces(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	if err := db.Exec("DROP TABLE criteria").Error; err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	_, err := service.CriterionAverage(context.Background(), professor.ID, criterion.ID)
	if err == nil {
		t.Fatal("expected error when storage fails")
	}
	if response.IsNotFound(err) {
		t.Errorf("storage failure reported as not-found: %v", err)
	}
}

func TestOverallAverage_ExactHalfRoundsUp(t *testing.T) {
	db := newTestDB(t)
	service := NewAggregateService(db, newTestCache(t))
	professor := createTestProfessor(t, db, "Ana Silva")
	criterion := createTestCriterion(t, db, "Clarity")

	// sum 9 over 8 evaluations: mean 1.125 lands exactly on the half and
	// must round up to 1.13.
	seedScores(t, db, professor.ID, criterion.ID, 1, 1, 1, 1, 1, 1, 1, 2)

	avg, err := service.OverallAverage(context.Background(), professor.ID)
	if err != nil {
		t.Fatalf("OverallAverage failed: %v", err)
	}
	if avg.Value != 1.13 {
		t.Errorf("average = %v, expected 1.13", avg.Value)
	}
}
