package analysis

import "github.com/abhisek/quizvault/internal/llm"

var pointList = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
		},
		"required":             []any{"topic", "description"},
		"additionalProperties": false,
	},
}

// ReportSchema defines the JSON schema for analysis responses.
var ReportSchema = &llm.Schema{
	Name:        "performance-analysis",
	Description: "Strengths and areas for improvement derived from quiz answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strengths":    pointList,
			"improvements": pointList,
		},
		"required":             []any{"strengths", "improvements"},
		"additionalProperties": false,
	},
}
