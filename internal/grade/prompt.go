package grade

import (
	"fmt"
	"strings"

	"github.com/abhisek/readling/internal/exercise"
)

const judgeSystemPrompt = `You are an English teacher grading a student's answer to a fill-in-the-blank question. Judge whether the student's answer is correct. Accept answers that differ from the expected one only in capitalization, minor spelling, or an equally valid word with the same meaning. Give one short, encouraging sentence of feedback addressed to the student.`

// buildJudgeMessage constructs the rubric prompt for one fill-blank item.
func buildJudgeMessage(q exercise.Question, answer string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", q.Prompt)
	fmt.Fprintf(&b, "Expected answer: %s\n", q.CorrectAnswer)
	fmt.Fprintf(&b, "Student's answer: %s\n", answer)

	return b.String()
}

const summarySystemPrompt = `You are an English teacher writing a short review of a student's reading comprehension test. Write 2-3 sentences of overall feedback on their performance, then 2-3 concrete suggestions for what to practice next. Be specific and encouraging.`

// buildSummaryMessage constructs the whole-test summary prompt.
func buildSummaryMessage(rec *exercise.LearningRecord, results []itemResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Article type: %s\n", rec.ArticleType)
	fmt.Fprintf(&b, "Questions answered: %d\n\n", len(results))

	for i, r := range results {
		verdict := "incorrect"
		if r.correct {
			verdict = "correct"
		}
		if r.ungraded {
			verdict = "ungraded"
		}
		fmt.Fprintf(&b, "Q%d (%s): %s\n", i+1, r.question.Kind, verdict)
		fmt.Fprintf(&b, "  Question: %s\n", r.question.Prompt)
		fmt.Fprintf(&b, "  Expected: %s\n", r.question.CorrectAnswer)
		fmt.Fprintf(&b, "  Student answered: %s\n", r.answer)
	}

	return b.String()
}
