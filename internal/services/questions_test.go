package services

import (
	"testing"

	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
	"github.com/adaptlearn/adaptlearn-backend/internal/questionbank"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

func testBank() *questionbank.Bank {
	return questionbank.New([]questionbank.Question{
		{ID: "ded-3", Category: "Deduction", Stem: "s", Choices: []string{"a", "b"}, Correct: "a", Difficulty: 3},
		{ID: "ded-4", Category: "Deduction", Stem: "s", Choices: []string{"a", "b"}, Correct: "a", Difficulty: 4},
		{ID: "ded-8", Category: "Deduction", Stem: "s", Choices: []string{"a", "b"}, Correct: "b", Difficulty: 8},
		{ID: "ded-9", Category: "Deduction", Stem: "s", Choices: []string{"a", "b"}, Correct: "b", Difficulty: 9},
		{ID: "inf-4", Category: "Inference", Stem: "s", Choices: []string{"a", "b"}, Correct: "a", Difficulty: 4},
		{ID: "inf-7", Category: "Inference", Stem: "s", Choices: []string{"a", "b"}, Correct: "b", Difficulty: 7},
	})
}

func newQuestionHarness(t *testing.T) (QuestionService, *fakeStatRepo) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	repo := newFakeStatRepo()
	return NewQuestionService(nil, log, testBank(), repo), repo
}

func TestNextQuestionsWarmupWithoutHistory(t *testing.T) {
	svc, _ := newQuestionHarness(t)

	got, err := svc.NextQuestions(dbctx.Context{}, "Watson Glaser", "Deduction", 5)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	// Warm-up targets difficulty 4, so the 3..5 band applies.
	if len(got) != 2 || got[0].ID != "ded-3" || got[1].ID != "ded-4" {
		t.Fatalf("expected warm-up band questions, got %+v", got)
	}
	if got[0].CorrectIndex != 0 {
		t.Fatalf("correct index not resolved: %+v", got[0])
	}
}

func TestNextQuestionsTargetsRecordedPerformance(t *testing.T) {
	svc, repo := newQuestionHarness(t)

	// A strong Deduction record (rate 0.8 -> target 8) steers selection to
	// the hard band and excludes the answered question.
	repo.rows[repo.key("Watson Glaser", "ded-3")] = &types.QuestionStat{
		PackName: "Watson Glaser", QuestionID: "ded-3", Category: "Deduction",
		TotalAttempts: 5, TotalCorrect: 4, TotalIncorrect: 1,
	}

	got, err := svc.NextQuestions(dbctx.Context{}, "Watson Glaser", "Deduction", 5)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ded-8" || got[1].ID != "ded-9" {
		t.Fatalf("expected hard-band questions, got %+v", got)
	}
	for _, q := range got {
		if q.ID == "ded-3" {
			t.Fatal("answered question served again")
		}
	}
}

func TestNextQuestionsFallsBackWhenBandExhausted(t *testing.T) {
	svc, repo := newQuestionHarness(t)

	// Weak record (rate 0 -> target 1): no Deduction question sits in the
	// 1..2 band, so selection widens to any unseen question.
	repo.rows[repo.key("Watson Glaser", "ded-3")] = &types.QuestionStat{
		PackName: "Watson Glaser", QuestionID: "ded-3", Category: "Deduction",
		TotalAttempts: 2, TotalCorrect: 0, TotalIncorrect: 2,
	}

	got, err := svc.NextQuestions(dbctx.Context{}, "Watson Glaser", "Deduction", 1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ded-4" {
		t.Fatalf("expected widened fallback to ded-4, got %+v", got)
	}
}

func TestNextQuestionsAllCategories(t *testing.T) {
	svc, _ := newQuestionHarness(t)

	got, err := svc.NextQuestions(dbctx.Context{}, "Watson Glaser", "", 1)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	// One warm-up question per bank category.
	if len(got) != 2 || got[0].Category != "Deduction" || got[1].Category != "Inference" {
		t.Fatalf("expected one question per category, got %+v", got)
	}
}

func TestNextQuestionsRequiresPack(t *testing.T) {
	svc, _ := newQuestionHarness(t)

	_, err := svc.NextQuestions(dbctx.Context{}, "  ", "", 3)
	if !apierr.Is(err, apierr.CodeInvalidMessage) {
		t.Fatalf("expected invalid_message, got %v", err)
	}
}
