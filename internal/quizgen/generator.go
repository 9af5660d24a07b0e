package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/quiz"
)

// Generator produces quiz questions for a topic.
type Generator interface {
	// Generate returns exactly count validated questions or a
	// *GenerationError.
	Generate(ctx context.Context, topic string, count int) ([]quiz.Question, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Generate produces count questions about topic.
func (g *LLMGenerator) Generate(ctx context.Context, topic string, count int) ([]quiz.Question, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &GenerationError{Topic: topic, Err: &quiz.ValidationError{Field: "topic", Message: "topic is required"}}
	}
	if count < 1 || (g.config.MaxQuestions > 0 && count > g.config.MaxQuestions) {
		return nil, &GenerationError{Topic: topic, Err: &quiz.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("count must be between 1 and %d", g.config.MaxQuestions),
		}}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, count)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		TopK:        g.config.TopK,
		TopP:        g.config.TopP,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &GenerationError{Topic: topic, Err: err}
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &GenerationError{Topic: topic, Err: &llm.InvalidResponseError{Content: resp.Content, Err: err}}
	}

	for i := range raw.Questions {
		raw.Questions[i].Question = strings.TrimSpace(raw.Questions[i].Question)
	}

	if err := quiz.ValidateQuestions(raw.Questions); err != nil {
		return nil, &GenerationError{Topic: topic, Err: err}
	}
	if len(raw.Questions) != count {
		return nil, &GenerationError{Topic: topic, Err: quiz.CountMismatch("questions", count, len(raw.Questions))}
	}
	return raw.Questions, nil
}
