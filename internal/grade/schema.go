package grade

import "github.com/abhisek/readling/internal/llm"

// JudgmentSchema defines the JSON schema for fill-blank rubric judgments.
var JudgmentSchema = &llm.Schema{
	Name:        "answer-judgment",
	Description: "A correctness judgment for one free-text answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the student's answer should receive credit",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One short sentence of feedback addressed to the student",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}

// SummarySchema defines the JSON schema for the whole-test summary.
var SummarySchema = &llm.Schema{
	Name:        "test-summary",
	Description: "Overall feedback and practice suggestions for a completed test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_feedback": map[string]any{
				"type":        "string",
				"description": "2-3 sentences on overall performance",
			},
			"suggestions": map[string]any{
				"type":        "string",
				"description": "2-3 concrete suggestions for what to practice next",
			},
		},
		"required":             []any{"overall_feedback", "suggestions"},
		"additionalProperties": false,
	},
}
