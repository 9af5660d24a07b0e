package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/stats"
)

// RecentLimit is the number of most recent results a subject analysis
// looks at.
const RecentLimit = 10

// ErrNoResults is returned when a subject has no attempts to analyze.
var ErrNoResults = errors.New("no quiz results available for analysis")

// ErrNotFound is returned when the result or subject does not exist.
var ErrNotFound = errors.New("not found")

// Source is the read side the analyzer needs. *store.Store satisfies it.
type Source interface {
	GetQuizResult(ctx context.Context, id string) (*quiz.Result, error)
	GetSubject(ctx context.Context, id string) (*quiz.Subject, error)
	ListQuizResultsBySubject(ctx context.Context, subjectID string) ([]quiz.Result, error)
	CountQuizzesBySubject(ctx context.Context, subjectID string) (int, error)
}

// Config holds LLM settings for analysis requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	TopK        int
	TopP        float64
}

// DefaultConfig mirrors the quiz generation sampling settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		TopK:        40,
		TopP:        0.95,
	}
}

// Analyzer turns stored results into strengths and improvement areas.
type Analyzer struct {
	provider llm.Provider
	source   Source
	cfg      Config
}

// New creates an Analyzer.
func New(provider llm.Provider, source Source, cfg Config) *Analyzer {
	return &Analyzer{provider: provider, source: source, cfg: cfg}
}

// AnalyzeResult reports on a single attempt.
func (a *Analyzer) AnalyzeResult(ctx context.Context, resultID string) (*Report, error) {
	fail := func(err error) error { return &AnalysisError{Kind: "result", ID: resultID, Err: err} }

	r, err := a.source.GetQuizResult(ctx, resultID)
	if err != nil {
		return nil, fail(err)
	}
	if r == nil {
		return nil, fail(fmt.Errorf("quiz result %w", ErrNotFound))
	}

	msg, err := render(resultTemplate, r)
	if err != nil {
		return nil, fail(fmt.Errorf("build result prompt: %w", err))
	}

	report, err := a.ask(llm.WithPurpose(ctx, llm.PurposeResultAnalysis), msg)
	if err != nil {
		return nil, fail(err)
	}
	return report, nil
}

// AnalyzeSubject reports on the RecentLimit newest attempts in a subject.
func (a *Analyzer) AnalyzeSubject(ctx context.Context, subjectID string) (*Report, error) {
	fail := func(err error) error { return &AnalysisError{Kind: "subject", ID: subjectID, Err: err} }

	subject, err := a.source.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, fail(err)
	}
	if subject == nil {
		return nil, fail(fmt.Errorf("subject %w", ErrNotFound))
	}

	results, err := a.source.ListQuizResultsBySubject(ctx, subjectID)
	if err != nil {
		return nil, fail(err)
	}
	if len(results) == 0 {
		return nil, fail(ErrNoResults)
	}
	if len(results) > RecentLimit {
		results = results[:RecentLimit]
	}

	quizzes, err := a.source.CountQuizzesBySubject(ctx, subjectID)
	if err != nil {
		return nil, fail(err)
	}

	msg, err := render(subjectTemplate, subjectInput{
		Subject:      subject,
		AverageScore: stats.MeanScore(results),
		TotalQuizzes: quizzes,
		Results:      results,
	})
	if err != nil {
		return nil, fail(fmt.Errorf("build subject prompt: %w", err))
	}

	report, err := a.ask(llm.WithPurpose(ctx, llm.PurposeSubjectAnalysis), msg)
	if err != nil {
		return nil, fail(err)
	}
	return report, nil
}

func (a *Analyzer) ask(ctx context.Context, userMsg string) (*Report, error) {
	resp, err := a.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ReportSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		TopK:        a.cfg.TopK,
		TopP:        a.cfg.TopP,
	})
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(resp.Content, &report); err != nil {
		return nil, &llm.InvalidResponseError{Content: resp.Content, Err: err}
	}
	if report.Strengths == nil {
		report.Strengths = []Point{}
	}
	if report.Improvements == nil {
		report.Improvements = []Point{}
	}
	return &report, nil
}
