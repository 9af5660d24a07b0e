package quizgen

import "github.com/abhisek/quizvault/internal/llm"

// QuizSchema defines the JSON schema for LLM quiz generation responses. It
// checks shape only; question rules are left to quiz.ValidateQuestions so
// failures name the question by position.
var QuizSchema = &llm.Schema{
	Name:        "generated-quiz",
	Description: "A set of multiple choice questions with exactly one correct option each",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"answerOptions": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text":      map[string]any{"type": "string"},
									"isCorrect": map[string]any{"type": "boolean"},
								},
								"required":             []any{"text", "isCorrect"},
								"additionalProperties": false,
							},
							"description": "Four options, exactly one with isCorrect true",
						},
					},
					"required":             []any{"question", "answerOptions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
