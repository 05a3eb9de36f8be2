package grade

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/readling/internal/exercise"
	"github.com/abhisek/readling/internal/llm"
)

// ungradedFeedback is attached to fill-blank items whose LLM judgment
// failed. They count as incorrect for scoring but are flagged separately.
const ungradedFeedback = "evaluation unavailable"

// Config holds evaluation knobs.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Summary enables the best-effort whole-test feedback call.
	Summary bool
}

// DefaultConfig returns sensible evaluation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.3,
		Summary:     true,
	}
}

// Evaluator drives the evaluation pipeline: deterministic scoring for
// choice questions, LLM-judged scoring for fill-blank items, and
// persistence of the completed record as a new document.
type Evaluator struct {
	provider llm.Provider
	store    exercise.RecordStore
	cfg      Config

	now func() time.Time
}

// New creates an Evaluator.
func New(provider llm.Provider, store exercise.RecordStore, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, store: store, cfg: cfg, now: time.Now}
}

// itemResult is the outcome for a single question.
type itemResult struct {
	question exercise.Question
	answer   string
	correct  bool
	ungraded bool
	feedback string
}

// judgmentOutput is the raw LLM rubric response.
type judgmentOutput struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// Evaluate scores the learner's answers against a generated record and
// persists the completed record as a distinct document. The input record
// is not mutated; the completed copy is returned.
//
// Evaluating an already-completed record fails with *StateError: a
// re-attempt must generate a new record instead.
func (e *Evaluator) Evaluate(ctx context.Context, rec *exercise.LearningRecord, answers map[string]string) (*exercise.LearningRecord, error) {
	if rec.Status != exercise.StatusGenerated {
		return nil, &StateError{RecordID: rec.RecordID, Kind: StateAlreadyCompleted}
	}

	results := make([]itemResult, len(rec.Questions))
	correct := 0
	for i, q := range rec.Questions {
		r := e.scoreQuestion(ctx, q, answers[q.ID])
		if r.correct {
			correct++
		}
		results[i] = r
	}

	score := float64(correct) / float64(len(rec.Questions))

	completed := *rec
	completed.Status = exercise.StatusCompleted
	completed.Answers = make(map[string]string, len(answers))
	completed.Feedback = make(map[string]string, len(results))
	for _, r := range results {
		completed.Answers[r.question.ID] = answers[r.question.ID]
		completed.Feedback[r.question.ID] = r.feedback
		if r.ungraded {
			completed.Ungraded = append(completed.Ungraded, r.question.ID)
		}
	}
	completed.Score = &score

	if e.cfg.Summary {
		e.attachSummary(ctx, &completed, results)
	}

	completedAt := e.now()
	completed.CompletedAt = &completedAt

	if _, err := e.store.Put(&completed, exercise.PhaseCompleted); err != nil {
		return nil, fmt.Errorf("persist completed record: %w", err)
	}

	return &completed, nil
}

// scoreQuestion grades one item. Choice and true/false questions are
// deterministic; fill-blank delegates to the LLM rubric and degrades to
// ungraded on any judgment failure.
func (e *Evaluator) scoreQuestion(ctx context.Context, q exercise.Question, answer string) itemResult {
	r := itemResult{question: q, answer: answer}

	switch q.Kind {
	case exercise.KindMultipleChoice:
		r.correct = matchChoice(q, answer)
	case exercise.KindTrueFalse:
		r.correct = equalFold(answer, q.CorrectAnswer)
	case exercise.KindFillBlank:
		return e.judgeFillBlank(ctx, q, answer)
	}

	if r.correct {
		r.feedback = "Correct."
	} else {
		r.feedback = fmt.Sprintf("Incorrect. The correct answer is %s.", q.CorrectAnswer)
	}
	return r
}

// judgeFillBlank delegates free-text scoring to the provider. A failed
// or malformed judgment marks the single item ungraded rather than
// aborting the whole evaluation.
func (e *Evaluator) judgeFillBlank(ctx context.Context, q exercise.Question, answer string) itemResult {
	r := itemResult{question: q, answer: answer}

	ctx = llm.WithPurpose(ctx, "fill-blank-judge")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: judgeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildJudgeMessage(q, answer)},
		},
		Schema:      JudgmentSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: fill-blank judgment failed: %v\n", err)
		r.ungraded = true
		r.feedback = ungradedFeedback
		return r
	}

	var out judgmentOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		fmt.Fprintf(os.Stderr, "warning: malformed judgment response: %v\n", err)
		r.ungraded = true
		r.feedback = ungradedFeedback
		return r
	}

	r.correct = out.Correct
	r.feedback = out.Feedback
	if r.feedback == "" {
		r.feedback = ungradedFeedback
		r.ungraded = true
		r.correct = false
	}
	return r
}

// summaryOutput is the raw LLM summary response.
type summaryOutput struct {
	OverallFeedback string `json:"overall_feedback"`
	Suggestions     string `json:"suggestions"`
}

// attachSummary adds the whole-test feedback. Best-effort: any failure
// leaves the fields empty.
func (e *Evaluator) attachSummary(ctx context.Context, rec *exercise.LearningRecord, results []itemResult) {
	ctx = llm.WithPurpose(ctx, "test-summary")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: summarySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSummaryMessage(rec, results)},
		},
		Schema:      SummarySchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: test summary unavailable: %v\n", err)
		return
	}

	var out summaryOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		fmt.Fprintf(os.Stderr, "warning: malformed summary response: %v\n", err)
		return
	}

	rec.OverallFeedback = out.OverallFeedback
	rec.Suggestions = out.Suggestions
}

// matchChoice accepts either the option letter or the full option text,
// case-insensitively and ignoring surrounding whitespace.
func matchChoice(q exercise.Question, answer string) bool {
	if equalFold(answer, q.CorrectAnswer) {
		return true
	}

	// "A. Paris" or "Paris" both match when A is correct.
	for _, opt := range q.Options {
		letter, text, found := strings.Cut(opt, ".")
		if !found {
			continue
		}
		if !equalFold(letter, q.CorrectAnswer) {
			continue
		}
		if equalFold(answer, opt) || equalFold(answer, text) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
