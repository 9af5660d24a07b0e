package quiz

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Import is a quiz definition read from a bulk import file.
type Import struct {
	Title       string     `json:"title"`
	SubjectName string     `json:"subjectName,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Kind        Kind       `json:"type,omitempty"`
	Questions   []Question `json:"questions"`
}

// AnswerSheet is a pre-graded attempt read from an upload file.
type AnswerSheet struct {
	QuizTitle         string             `json:"quizTitle,omitempty"`
	AnsweredQuestions []AnsweredQuestion `json:"answeredQuestions"`
}

var (
	importSchema      = sync.OnceValues(func() (*jsonschema.Schema, error) { return compileSchema("quiz_import.json") })
	answerSheetSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { return compileSchema("answer_sheet.json") })
)

// ParseImport decodes and validates a quiz import payload of the form
// {"questions": [{"question": ..., "answerOptions": [{"text", "isCorrect"}]}]}.
// The exactly-one-correct rule is not checked here; see ValidateQuestions.
func ParseImport(data []byte) (*Import, error) {
	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["questions"]; !ok {
		return nil, &ValidationError{Field: "questions", Message: "invalid JSON format: missing questions array"}
	}
	if err := validateAgainst(importSchema, doc); err != nil {
		return nil, err
	}

	var imp Import
	if err := json.Unmarshal(data, &imp); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("decode quiz import: %v", err)}
	}
	return &imp, nil
}

// ParseAnswerSheet decodes and validates an answer-sheet upload payload of
// the form {"answeredQuestions": [...]}.
func ParseAnswerSheet(data []byte) (*AnswerSheet, error) {
	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["answeredQuestions"]; !ok {
		return nil, &ValidationError{Field: "answeredQuestions", Message: "invalid JSON format: missing answeredQuestions array"}
	}
	if err := validateAgainst(answerSheetSchema, doc); err != nil {
		return nil, err
	}

	var sheet AnswerSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("decode answer sheet: %v", err)}
	}
	return &sheet, nil
}

// ValidateQuestions enforces the authoring rules for multiple-choice
// questions: at least two options and exactly one correct option each.
// Messages name the offending question by its 1-based position.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return &ValidationError{Field: "questions", Message: "quiz must have at least one question"}
	}
	for i, q := range questions {
		n := i + 1
		if q.Question == "" {
			return &ValidationError{Field: "questions", Message: fmt.Sprintf("invalid question format at position %d", n)}
		}
		if len(q.AnswerOptions) < 2 {
			return &ValidationError{Field: "questions", Message: fmt.Sprintf("question %d must have at least 2 answer options", n)}
		}
		if q.CorrectCount() != 1 {
			return &ValidationError{Field: "questions", Message: fmt.Sprintf("question %d must have exactly one correct answer", n)}
		}
	}
	return nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: "invalid JSON format: expected an object"}
	}
	return obj, nil
}

func validateAgainst(load func() (*jsonschema.Schema, error), doc map[string]any) error {
	sch, err := load()
	if err != nil {
		return fmt.Errorf("load import schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := "schema://quizvault/" + name
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s: %w", name, err)
	}
	return c.Compile(url)
}
