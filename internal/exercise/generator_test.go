package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/readling/internal/llm"
)

// memStore is an in-memory RecordStore for tests.
type memStore struct {
	recs   map[string]*LearningRecord
	phases []Phase
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]*LearningRecord)}
}

func (m *memStore) Put(rec *LearningRecord, phase Phase) (string, error) {
	cp := *rec
	m.recs[rec.RecordID] = &cp
	m.phases = append(m.phases, phase)
	return rec.RecordID, nil
}

func (m *memStore) Get(recordID string) (*LearningRecord, error) {
	rec, ok := m.recs[recordID]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func validExerciseJSON() json.RawMessage {
	return json.RawMessage(`{
		"article": "The little fox crossed the frozen river to find food for winter.",
		"questions": [
			{"type": "multiple_choice", "question": "What did the fox cross?",
			 "options": ["A. A river", "B. A road", "C. A bridge", "D. A field"],
			 "correct_answer": "A"},
			{"type": "multiple_choice", "question": "Why did the fox travel?",
			 "options": ["A. To play", "B. To find food", "C. To sleep", "D. To swim"],
			 "correct_answer": "B"},
			{"type": "fill_blank", "question": "The fox was looking for ___ for winter.",
			 "correct_answer": "food"},
			{"type": "fill_blank", "question": "The river was ___.",
			 "correct_answer": "frozen"},
			{"type": "true_false", "question": "The fox crossed a mountain.",
			 "correct_answer": "False"}
		]
	}`)
}

func testProfile() LearnerProfile {
	return LearnerProfile{Age: 8, Lexile: 600, WordBank: []string{"fox", "river", "winter"}}
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExerciseJSON()})
	st := newMemStore()

	cfg := DefaultConfig()
	cfg.ProviderName = "DeepSeek"
	gen := New(mock, st, cfg)

	fixed := time.Date(2026, 3, 14, 9, 12, 5, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	rec, err := gen.Generate(context.Background(), testProfile(), TypeNature)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if rec.RecordID != "20260314_091205" {
		t.Errorf("RecordID = %q", rec.RecordID)
	}
	if rec.Status != StatusGenerated {
		t.Errorf("Status = %q, want generated", rec.Status)
	}
	if rec.ArticleType != TypeNature {
		t.Errorf("ArticleType = %q", rec.ArticleType)
	}
	if rec.Provider != "DeepSeek" {
		t.Errorf("Provider = %q", rec.Provider)
	}
	if len(rec.Questions) != 5 {
		t.Fatalf("questions = %d, want 5", len(rec.Questions))
	}

	// Every question gets a unique ID.
	seen := make(map[string]bool)
	for i, q := range rec.Questions {
		if q.ID == "" {
			t.Errorf("question %d: empty ID", i)
		}
		if seen[q.ID] {
			t.Errorf("question %d: duplicate ID %q", i, q.ID)
		}
		seen[q.ID] = true
	}

	// True/false answers are normalized to lowercase.
	if got := rec.Questions[4].CorrectAnswer; got != "false" {
		t.Errorf("true/false answer = %q, want \"false\"", got)
	}

	// The generated record is persisted before Generate returns.
	if len(st.phases) != 1 || st.phases[0] != PhaseGenerated {
		t.Errorf("store phases = %v, want [generated]", st.phases)
	}
	if _, err := st.Get(rec.RecordID); err != nil {
		t.Errorf("persisted record not found: %v", err)
	}
}

func TestGenerateRejectsWrongComposition(t *testing.T) {
	// 3 multiple choice, 1 fill-blank, 1 true/false.
	bad := json.RawMessage(`{
		"article": "text",
		"questions": [
			{"type": "multiple_choice", "question": "q1", "options": ["A. x", "B. y"], "correct_answer": "A"},
			{"type": "multiple_choice", "question": "q2", "options": ["A. x", "B. y"], "correct_answer": "A"},
			{"type": "multiple_choice", "question": "q3", "options": ["A. x", "B. y"], "correct_answer": "A"},
			{"type": "fill_blank", "question": "q4 ___", "correct_answer": "w"},
			{"type": "true_false", "question": "q5", "correct_answer": "true"}
		]
	}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: bad})
	st := newMemStore()

	_, err := New(mock, st, DefaultConfig()).Generate(context.Background(), testProfile(), TypeStory)

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
	if string(malformed.Raw) != string(bad) {
		t.Error("raw response not carried on the error")
	}
	if len(st.recs) != 0 {
		t.Error("malformed exercise must not be persisted")
	}
}

func TestGenerateRejectsUnparseableJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json at all`)})

	_, err := New(mock, newMemStore(), DefaultConfig()).Generate(context.Background(), testProfile(), TypeStory)

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
}

func TestGenerateWrapsInvalidResponse(t *testing.T) {
	raw := json.RawMessage(`{"half": "finished`)
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: raw, Err: errors.New("schema validation failed")},
	})

	_, err := New(mock, newMemStore(), DefaultConfig()).Generate(context.Background(), testProfile(), TypeStory)

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want *MalformedResponseError", err)
	}
	if string(malformed.Raw) != string(raw) {
		t.Errorf("Raw = %s, want provider content", malformed.Raw)
	}
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrRateLimit{Err: errors.New("429")},
	})

	_, err := New(mock, newMemStore(), DefaultConfig()).Generate(context.Background(), testProfile(), TypeStory)
	if err == nil {
		t.Fatal("expected error")
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		t.Fatal("provider error must not be reported as malformed response")
	}
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want wrapped *ErrRateLimit", err)
	}
}

func TestGenerateSendsSchemaAndPurpose(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validExerciseJSON()})

	_, err := New(mock, newMemStore(), DefaultConfig()).Generate(context.Background(), testProfile(), TypeScience)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != ExerciseSchema.Name {
		t.Errorf("Schema = %+v, want %q", req.Schema, ExerciseSchema.Name)
	}
	if req.System == "" {
		t.Error("system prompt missing")
	}
}
