package exercise

import "github.com/abhisek/readling/internal/llm"

// ExerciseSchema defines the JSON schema for the article + question set
// response. Counts and kind composition are checked separately after
// parsing, since JSON Schema cannot express the 2/2/1 multiset.
var ExerciseSchema = &llm.Schema{
	Name:        "reading-exercise",
	Description: "A reading article with exactly 5 comprehension questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"article": map[string]any{
				"type":        "string",
				"description": "The article text, 150-250 words, matching the requested Lexile level",
			},
			"questions": map[string]any{
				"type":        "array",
				"minItems":    5,
				"maxItems":    5,
				"description": "Exactly 5 questions: 2 multiple_choice, then 2 fill_blank, then 1 true_false",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple_choice", "fill_blank", "true_false"},
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text. Fill-blank questions use ___ for the blank.",
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 options prefixed A. through D. for multiple_choice. Empty for other types.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "The option letter for multiple_choice, the blank's word(s) for fill_blank, \"true\" or \"false\" for true_false",
						},
					},
					"required":             []any{"type", "question", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"article", "questions"},
		"additionalProperties": false,
	},
}
