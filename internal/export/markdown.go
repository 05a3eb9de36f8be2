// Package export renders learning records to Markdown for display and
// file export.
package export

import (
	"fmt"
	"strings"

	"github.com/abhisek/readling/internal/exercise"
)

// Render formats a record as Markdown. Generated records show the
// article and questions only; completed records add the learner's
// answers, per-item results, and the overall feedback.
func Render(rec *exercise.LearningRecord) string {
	var b strings.Builder

	switch rec.Status {
	case exercise.StatusCompleted:
		fmt.Fprintf(&b, "# Test Record - %s\n\n", rec.RecordID)
		fmt.Fprintf(&b, "**Type:** %s\n", rec.ArticleType)
		if rec.Score != nil {
			fmt.Fprintf(&b, "**Score: %.0f%%**\n", *rec.Score*100)
		}
	default:
		fmt.Fprintf(&b, "# Article Record - %s\n\n", rec.RecordID)
		fmt.Fprintf(&b, "**Type:** %s\n", rec.ArticleType)
		b.WriteString("**Status:** Generated (not yet completed)\n")
	}

	if rec.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s\n", rec.Model)
	}

	b.WriteString("\n## Article\n\n")
	b.WriteString(rec.Article)
	b.WriteString("\n\n## Questions\n")

	ungraded := make(map[string]bool, len(rec.Ungraded))
	for _, id := range rec.Ungraded {
		ungraded[id] = true
	}

	for i, q := range rec.Questions {
		fmt.Fprintf(&b, "\n### Question %d\n\n", i+1)
		fmt.Fprintf(&b, "**Type:** %s\n", q.Kind)
		fmt.Fprintf(&b, "**Question:** %s\n", q.Prompt)

		if q.Kind == exercise.KindMultipleChoice {
			b.WriteString("**Options:**\n")
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "  - %s\n", opt)
			}
		}

		if rec.Status != exercise.StatusCompleted {
			continue
		}

		fmt.Fprintf(&b, "**Your Answer:** %s\n", rec.Answers[q.ID])
		fmt.Fprintf(&b, "**Correct Answer:** %s\n", q.CorrectAnswer)
		if ungraded[q.ID] {
			b.WriteString("**Result:** ? Ungraded\n")
		}
		if fb := rec.Feedback[q.ID]; fb != "" {
			fmt.Fprintf(&b, "**Feedback:** %s\n", fb)
		}
	}

	if rec.OverallFeedback != "" {
		b.WriteString("\n## Overall Feedback\n\n")
		b.WriteString(rec.OverallFeedback)
		b.WriteString("\n")
	}
	if rec.Suggestions != "" {
		b.WriteString("\n## Suggestions\n\n")
		b.WriteString(rec.Suggestions)
		b.WriteString("\n")
	}

	return b.String()
}
