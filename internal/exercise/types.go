package exercise

import "time"

// ArticleType selects the flavor of generated article.
type ArticleType string

const (
	TypeStory   ArticleType = "Story"
	TypeScience ArticleType = "Science"
	TypeNature  ArticleType = "Nature"
	TypeHistory ArticleType = "History"
)

// ArticleTypes lists the valid types in display order.
var ArticleTypes = []ArticleType{TypeStory, TypeScience, TypeNature, TypeHistory}

// ParseArticleType validates a user-supplied article type string.
func ParseArticleType(s string) (ArticleType, bool) {
	for _, t := range ArticleTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// QuestionKind describes how a question is answered and scored.
type QuestionKind string

const (
	// KindMultipleChoice has 4 lettered options; scored by exact match.
	KindMultipleChoice QuestionKind = "multiple_choice"

	// KindFillBlank is free text; scored by an LLM rubric judgment.
	KindFillBlank QuestionKind = "fill_blank"

	// KindTrueFalse expects "true" or "false"; scored by exact match.
	KindTrueFalse QuestionKind = "true_false"
)

// Question is one generated test item.
type Question struct {
	// ID is a uuid assigned at parse time. Answers and feedback are
	// keyed by it.
	ID string `json:"id"`

	Kind QuestionKind `json:"kind"`

	// Prompt is the question text. Fill-blank prompts use ___ for the blank.
	Prompt string `json:"question"`

	// Options is present only for multiple choice: 4 options prefixed
	// "A." through "D.".
	Options []string `json:"options,omitempty"`

	// CorrectAnswer is the canonical correct answer: the option letter
	// for multiple choice, the blank's word(s) for fill-blank, and
	// "true" or "false" for true/false.
	CorrectAnswer string `json:"correct_answer"`
}

// Status is the lifecycle phase of a LearningRecord.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusCompleted Status = "completed"
)

// LearnerProfile is the core's read-only view of a learner.
// Owned by the profile layer; the pipelines only read it.
type LearnerProfile struct {
	// Age in years.
	Age int

	// Lexile is the reading-difficulty level, 200-1700.
	Lexile int

	// WordBank is the deduplicated vocabulary set the article should
	// incorporate. May be empty, in which case generation is driven by
	// the Lexile level alone.
	WordBank []string
}

// LearningRecord is the central entity: one generated article with its
// questions, and after evaluation, the learner's answers and score.
// A record is immutable once Status is completed.
type LearningRecord struct {
	// RecordID is derived from the generation timestamp
	// (YYYYMMDD_HHMMSS), unique within a date partition. The completed
	// document carries the same ID as its generated counterpart.
	RecordID string `json:"record_id"`

	Status      Status      `json:"status"`
	ArticleType ArticleType `json:"article_type"`

	// Provider and Model record which backend produced the article.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	Article string `json:"article"`

	// Questions always holds exactly 5 items: 2 multiple choice,
	// 2 fill-blank, 1 true/false.
	Questions []Question `json:"questions"`

	CreatedAt time.Time `json:"created_at"`

	// Fields below are absent until Status is completed.

	// Answers maps question ID to the learner's raw answer.
	Answers map[string]string `json:"answers,omitempty"`

	// Score is the fraction of fully credited questions, in [0,1].
	Score *float64 `json:"score,omitempty"`

	// Feedback maps question ID to a short per-item explanation.
	Feedback map[string]string `json:"feedback,omitempty"`

	// Ungraded lists question IDs whose LLM judgment failed. They count
	// as incorrect in Score but are flagged here so the discrepancy is
	// visible to the learner.
	Ungraded []string `json:"ungraded,omitempty"`

	// OverallFeedback and Suggestions are the best-effort whole-test
	// summary. Either may be empty when the summary call fails.
	OverallFeedback string `json:"overall_feedback,omitempty"`
	Suggestions     string `json:"suggestions,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Phase names the stored artifact kind for a record write.
type Phase string

const (
	PhaseGenerated Phase = "generated"
	PhaseCompleted Phase = "completed"
)

// RecordStore is the persistence surface the pipelines depend on.
// Implemented by the record package.
type RecordStore interface {
	// Put writes the record as a new document for the given phase and
	// returns its record ID.
	Put(rec *LearningRecord, phase Phase) (string, error)

	// Get returns the record by ID. When both phases exist the
	// completed document wins.
	Get(recordID string) (*LearningRecord, error)
}
