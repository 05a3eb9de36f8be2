package export

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/readling/internal/exercise"
)

func sampleRecord() *exercise.LearningRecord {
	return &exercise.LearningRecord{
		RecordID:    "20260314_091205",
		Status:      exercise.StatusGenerated,
		ArticleType: exercise.TypeNature,
		Model:       "deepseek-chat",
		Article:     "The little fox crossed the frozen river.",
		Questions: []exercise.Question{
			{ID: "q1", Kind: exercise.KindMultipleChoice, Prompt: "What crossed the river?",
				Options: []string{"A. A fox", "B. A bear"}, CorrectAnswer: "A"},
			{ID: "q2", Kind: exercise.KindFillBlank, Prompt: "The river was ___.", CorrectAnswer: "frozen"},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 12, 5, 0, time.UTC),
	}
}

func TestRenderGenerated(t *testing.T) {
	md := Render(sampleRecord())

	for _, want := range []string{
		"# Article Record - 20260314_091205",
		"**Status:** Generated (not yet completed)",
		"**Model:** deepseek-chat",
		"The little fox crossed the frozen river.",
		"### Question 1",
		"  - A. A fox",
		"### Question 2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}

	// Generated records never leak answer fields.
	if strings.Contains(md, "Your Answer") || strings.Contains(md, "Correct Answer") {
		t.Error("generated record rendered answers")
	}
}

func TestRenderCompleted(t *testing.T) {
	rec := sampleRecord()
	rec.Status = exercise.StatusCompleted
	score := 0.5
	rec.Score = &score
	rec.Answers = map[string]string{"q1": "B", "q2": "cold"}
	rec.Feedback = map[string]string{
		"q1": "Incorrect. The correct answer is A.",
		"q2": "evaluation unavailable",
	}
	rec.Ungraded = []string{"q2"}
	rec.OverallFeedback = "Good effort overall."
	rec.Suggestions = "Reread for detail questions."
	completedAt := rec.CreatedAt.Add(time.Hour)
	rec.CompletedAt = &completedAt

	md := Render(rec)

	for _, want := range []string{
		"# Test Record - 20260314_091205",
		"**Score: 50%**",
		"**Your Answer:** B",
		"**Correct Answer:** A",
		"**Result:** ? Ungraded",
		"**Feedback:** evaluation unavailable",
		"## Overall Feedback",
		"Good effort overall.",
		"## Suggestions",
		"Reread for detail questions.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}
