package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/readling/internal/llm"
)

// Config holds generation knobs.
type Config struct {
	// ProviderName is the configured section name recorded on the
	// produced record (distinct from the model ID).
	ProviderName string

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Generator drives the generation pipeline: prompt construction, the
// provider call, strict parsing, and persistence of the generated record.
type Generator struct {
	provider llm.Provider
	store    RecordStore
	cfg      Config

	// now is overridable in tests for deterministic record IDs.
	now func() time.Time
}

// New creates a Generator.
func New(provider llm.Provider, store RecordStore, cfg Config) *Generator {
	return &Generator{provider: provider, store: store, cfg: cfg, now: time.Now}
}

// exerciseOutput is the raw LLM response before validation.
type exerciseOutput struct {
	Article   string `json:"article"`
	Questions []struct {
		Type          string   `json:"type"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
	} `json:"questions"`
}

// Generate produces a learning record for the given profile and article
// type. The record is persisted with status "generated" before it is
// returned, so a crash mid-session never loses the generated content.
func (g *Generator) Generate(ctx context.Context, profile LearnerProfile, articleType ArticleType) (*LearningRecord, error) {
	ctx = llm.WithPurpose(ctx, "article-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(profile, articleType)},
		},
		Schema:      ExerciseSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return nil, &MalformedResponseError{Raw: inv.Content, Err: err}
		}
		return nil, fmt.Errorf("article generation failed: %w", err)
	}

	var raw exerciseOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &MalformedResponseError{Raw: resp.Content, Err: err}
	}

	questions := make([]Question, len(raw.Questions))
	for i, q := range raw.Questions {
		questions[i] = Question{
			ID:            uuid.NewString(),
			Kind:          QuestionKind(q.Type),
			Prompt:        q.Question,
			Options:       q.Options,
			CorrectAnswer: normalizeCorrectAnswer(QuestionKind(q.Type), q.CorrectAnswer),
		}
	}

	if err := validateExercise(raw.Article, questions); err != nil {
		return nil, &MalformedResponseError{Raw: resp.Content, Err: err}
	}

	createdAt := g.now()
	rec := &LearningRecord{
		RecordID:    createdAt.Format("20060102_150405"),
		Status:      StatusGenerated,
		ArticleType: articleType,
		Provider:    g.cfg.ProviderName,
		Model:       resp.Model,
		Article:     raw.Article,
		Questions:   questions,
		CreatedAt:   createdAt,
	}

	if _, err := g.store.Put(rec, PhaseGenerated); err != nil {
		return nil, fmt.Errorf("persist generated record: %w", err)
	}

	return rec, nil
}

// normalizeCorrectAnswer canonicalizes answers at parse time: true/false
// answers become lowercase "true"/"false", and stray whitespace is
// trimmed everywhere.
func normalizeCorrectAnswer(kind QuestionKind, answer string) string {
	answer = strings.TrimSpace(answer)
	if kind == KindTrueFalse {
		return strings.ToLower(answer)
	}
	return answer
}
