package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/quiz"
)

// quizJSON builds a reply with n well-formed questions.
func quizJSON(n int) json.RawMessage {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"question": fmt.Sprintf("Question %d?", i+1),
			"answerOptions": []map[string]any{
				{"text": "A", "isCorrect": false},
				{"text": "B", "isCorrect": true},
				{"text": "C", "isCorrect": false},
				{"text": "D", "isCorrect": false},
			},
		}
	}
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return b
}

func TestGenerate_ReturnsQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(5)})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), "water cycle", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}
	if qs[0].CorrectAnswer() != "B" {
		t.Errorf("expected correct answer B, got %q", qs[0].CorrectAnswer())
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(10)})
	gen := New(mock, DefaultConfig())

	if _, err := gen.Generate(context.Background(), "  photosynthesis ", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if req.Schema != QuizSchema {
		t.Error("expected the quiz schema on the request")
	}
	if req.MaxTokens != 2048 || req.Temperature != 0.7 || req.TopK != 40 || req.TopP != 0.95 {
		t.Errorf("unexpected sampling config: %+v", req)
	}
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "exactly 10 multiple choice questions about: photosynthesis") {
		t.Errorf("unexpected user message: %q", msg)
	}
}

func TestGenerate_CountMismatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(4)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), "rivers", 5)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got: %T", err)
	}
	var verr *quiz.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected wrapped ValidationError, got: %v", err)
	}
	if verr.Message != "expected 5, received 4" {
		t.Errorf("unexpected message %q", verr.Message)
	}
}

func TestGenerate_QuestionRuleViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "two correct options",
			content: `{"questions":[
				{"question":"Q1","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]},
				{"question":"Q2","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":true}]}
			]}`,
			want: "question 2 must have exactly one correct answer",
		},
		{
			name: "no correct option",
			content: `{"questions":[
				{"question":"Q1","answerOptions":[{"text":"a","isCorrect":false},{"text":"b","isCorrect":false}]},
				{"question":"Q2","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]}
			]}`,
			want: "question 1 must have exactly one correct answer",
		},
		{
			name: "blank question",
			content: `{"questions":[
				{"question":"Q1","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]},
				{"question":"   ","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]}
			]}`,
			want: "invalid question format at position 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
			gen := New(mock, DefaultConfig())

			_, err := gen.Generate(context.Background(), "topic", 2)
			var verr *quiz.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if verr.Message != tt.want {
				t.Errorf("message = %q, want %q", verr.Message, tt.want)
			}
		})
	}
}

func TestGenerate_StructuralRulesNameQuestion(t *testing.T) {
	valid := `{"question":"Q","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]}`
	tests := []struct {
		name    string
		content string
		count   int
		want    string
	}{
		{
			name:    "single option",
			content: `{"questions":[` + valid + `,` + valid + `,{"question":"Q3","answerOptions":[{"text":"a","isCorrect":true}]}]}`,
			count:   3,
			want:    "question 3 must have at least 2 answer options",
		},
		{
			name:    "no options",
			content: `{"questions":[` + valid + `,{"question":"Q2","answerOptions":[]}]}`,
			count:   2,
			want:    "question 2 must have at least 2 answer options",
		},
		{
			name:    "empty question text",
			content: `{"questions":[{"question":"","answerOptions":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]}]}`,
			count:   1,
			want:    "invalid question format at position 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.content)})
			gen := New(mock, DefaultConfig())

			_, err := gen.Generate(context.Background(), "topic", tt.count)
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got: %v", err)
			}
			var inv *llm.InvalidResponseError
			if errors.As(err, &inv) {
				t.Fatalf("expected question rule failure, got schema failure: %v", err)
			}
			var verr *quiz.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if verr.Message != tt.want {
				t.Errorf("message = %q, want %q", verr.Message, tt.want)
			}
		})
	}
}

func TestGenerate_ProviderErrorWrapped(t *testing.T) {
	apiErr := &llm.APIError{Provider: "gemini", StatusCode: 400, Message: "API key not valid"}
	mock := llm.NewMockProvider(llm.MockResponse{Err: apiErr})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), "topic", 5)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got: %T", err)
	}
	var got *llm.APIError
	if !errors.As(err, &got) || got.StatusCode != 400 {
		t.Fatalf("expected APIError 400 in chain, got: %v", err)
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig())

	for _, tc := range []struct {
		topic string
		count int
	}{
		{"", 5},
		{"rivers", 0},
		{"rivers", 51},
	} {
		_, err := gen.Generate(context.Background(), tc.topic, tc.count)
		var verr *quiz.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Generate(%q, %d): expected ValidationError, got %v", tc.topic, tc.count, err)
		}
	}
}
