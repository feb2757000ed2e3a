package explain

import "github.com/abhisek/drillbook/internal/llm"

// ExplanationSchema is the JSON shape of an explanation answer.
var ExplanationSchema = &llm.Schema{
	Name:        "quiz-explanation",
	Description: "Why the correct answers of a multiple-choice question are correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two to four sentences explaining the correct answer",
			},
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    5,
				"description": "Short facts worth remembering, one per item",
			},
		},
		"required":             []any{"explanation", "key_points"},
		"additionalProperties": false,
	},
}
