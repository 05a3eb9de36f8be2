package exercise

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError indicates the model's response violated the
// structural contract: unparseable JSON, wrong question count, wrong kind
// composition, or missing fields. The raw response is carried verbatim
// for diagnosis; the pipeline never repairs it silently.
type MalformedResponseError struct {
	Raw json.RawMessage
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// validateExercise enforces the fixed exercise shape: a non-empty
// article and exactly 5 questions in a 2 multiple choice / 2 fill-blank /
// 1 true-false composition, each structurally complete.
func validateExercise(article string, questions []Question) error {
	if strings.TrimSpace(article) == "" {
		return fmt.Errorf("article is empty")
	}
	if len(questions) != 5 {
		return fmt.Errorf("expected 5 questions, got %d", len(questions))
	}

	counts := map[QuestionKind]int{}
	for i, q := range questions {
		switch q.Kind {
		case KindMultipleChoice, KindFillBlank, KindTrueFalse:
		default:
			return fmt.Errorf("question %d: unknown kind %q", i+1, q.Kind)
		}
		counts[q.Kind]++

		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %d: empty question text", i+1)
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return fmt.Errorf("question %d: empty correct answer", i+1)
		}

		switch q.Kind {
		case KindMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: multiple choice needs at least 2 options, got %d", i+1, len(q.Options))
			}
		case KindTrueFalse:
			if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
				return fmt.Errorf("question %d: true/false answer must be \"true\" or \"false\", got %q", i+1, q.CorrectAnswer)
			}
		}
	}

	if counts[KindMultipleChoice] != 2 || counts[KindFillBlank] != 2 || counts[KindTrueFalse] != 1 {
		return fmt.Errorf("expected 2 multiple_choice / 2 fill_blank / 1 true_false, got %d/%d/%d",
			counts[KindMultipleChoice], counts[KindFillBlank], counts[KindTrueFalse])
	}

	return nil
}
