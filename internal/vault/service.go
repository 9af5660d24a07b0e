// Package vault composes storage, grading, generation and analysis into the
// use cases shared by the CLI and the HTTP API.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/analysis"
	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/quizgen"
	"github.com/abhisek/quizvault/internal/scoring"
	"github.com/abhisek/quizvault/internal/stats"
	"github.com/abhisek/quizvault/internal/store"
)

// ErrNotFound is wrapped by every lookup failure the service reports.
var ErrNotFound = errors.New("not found")

// Attempt sources recorded in metrics.
const (
	SourceInteractive = "interactive"
	SourceAnswerSheet = "answer-sheet"
	SourceAPI         = "api"
)

// AttemptObserver receives every saved attempt. *metrics.Metrics
// implements it.
type AttemptObserver interface {
	ObserveAttempt(source string, score float64)
}

// Service is the application core.
type Service struct {
	store    *store.Store
	stats    *stats.Service
	gen      quizgen.Generator
	analyzer *analysis.Analyzer
	aiErr    error
	observer AttemptObserver
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithProvider enables the AI operations.
func WithProvider(p llm.Provider) Option {
	return func(s *Service) {
		if p == nil {
			return
		}
		s.gen = quizgen.New(p, quizgen.DefaultConfig())
		s.analyzer = analysis.New(p, s.store, analysis.DefaultConfig())
		s.aiErr = nil
	}
}

// WithProviderError records why no provider is available. The AI
// operations return it unchanged.
func WithProviderError(err error) Option {
	return func(s *Service) {
		if s.gen == nil && err != nil {
			s.aiErr = err
		}
	}
}

// WithGenerator replaces the quiz generator.
func WithGenerator(g quizgen.Generator) Option {
	return func(s *Service) { s.gen = g }
}

func WithAttemptObserver(o AttemptObserver) Option {
	return func(s *Service) { s.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a Service over st. logger may be nil.
func New(st *store.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  st,
		stats:  stats.New(st),
		aiErr:  &llm.MissingCredentialError{Provider: llm.ProviderGemini, Setting: "llm.gemini.api_key or QUIZVAULT_LLM_GEMINI_API_KEY"},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the record store for read-only listings.
func (s *Service) Store() *store.Store { return s.store }

// Stats exposes the aggregation service.
func (s *Service) Stats() *stats.Service { return s.stats }

// ImportOptions override fields of an imported quiz file.
type ImportOptions struct {
	Title      string
	Difficulty string
	Kind       string
}

// ImportQuiz validates a quiz JSON payload and stores it under subjectID.
// Nothing is persisted when validation fails.
func (s *Service) ImportQuiz(ctx context.Context, subjectID string, data []byte, opts ImportOptions) (*quiz.Quiz, error) {
	if err := s.requireSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	imp, err := quiz.ParseImport(data)
	if err != nil {
		return nil, err
	}

	title := firstNonEmpty(opts.Title, imp.Title)
	if title == "" {
		return nil, &quiz.ValidationError{Field: "title", Message: "quiz title is required"}
	}

	difficulty := imp.Difficulty
	if opts.Difficulty != "" {
		if difficulty, err = quiz.ParseDifficulty(opts.Difficulty); err != nil {
			return nil, err
		}
	}
	kind := imp.Kind
	if opts.Kind != "" {
		if kind, err = quiz.ParseKind(opts.Kind); err != nil {
			return nil, err
		}
	}

	if err := quiz.ValidateQuestions(imp.Questions); err != nil {
		return nil, err
	}

	q, err := s.store.CreateQuiz(ctx, quiz.Quiz{
		Title:      title,
		SubjectID:  subjectID,
		Difficulty: difficulty,
		Kind:       kind,
		Questions:  imp.Questions,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported quiz", zap.String("quiz_id", q.ID), zap.String("subject_id", subjectID), zap.Int("questions", len(q.Questions)))
	return q, nil
}

// GenerateRequest describes an AI-authored quiz.
type GenerateRequest struct {
	SubjectID  string
	Title      string
	Topic      string
	Count      int
	Difficulty string
	Kind       string
}

// GenerateQuiz asks the provider for questions and stores the quiz. The
// subject is checked before any request is made.
func (s *Service) GenerateQuiz(ctx context.Context, req GenerateRequest) (*quiz.Quiz, error) {
	if s.gen == nil {
		return nil, s.aiErr
	}
	if err := s.requireSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	count := req.Count
	if count == 0 {
		count = quizgen.DefaultCount
	}
	difficulty := quiz.DifficultyMedium
	if req.Difficulty != "" {
		d, err := quiz.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, err
		}
		difficulty = d
	}
	kind, err := quiz.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	questions, err := s.gen.Generate(ctx, req.Topic, count)
	if err != nil {
		return nil, err
	}

	q, err := s.store.CreateQuiz(ctx, quiz.Quiz{
		Title:      firstNonEmpty(req.Title, strings.TrimSpace(req.Topic)),
		SubjectID:  req.SubjectID,
		Difficulty: difficulty,
		Kind:       kind,
		Questions:  questions,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("generated quiz", zap.String("quiz_id", q.ID), zap.String("topic", req.Topic), zap.Int("questions", count))
	return q, nil
}

// Attempt is a set of answers chosen while taking a quiz.
type Attempt struct {
	QuizID string
	// Selections maps 0-based question index to 0-based option index.
	// Unanswered questions are absent.
	Selections map[int]int
	StartedAt  time.Time
	Source     string
}

// SubmitAttempt grades an attempt and saves the result.
func (s *Service) SubmitAttempt(ctx context.Context, a Attempt) (*quiz.Result, error) {
	q, err := s.requireQuiz(ctx, a.QuizID)
	if err != nil {
		return nil, err
	}

	result, err := scoring.Grade(q, a.Selections)
	if err != nil {
		return nil, err
	}
	result.StartTime = a.StartedAt
	if result.StartTime.IsZero() {
		result.StartTime = s.now()
	}

	return s.save(ctx, *result, firstNonEmpty(a.Source, SourceInteractive))
}

// UploadAnswerSheet re-scores a pre-graded answer sheet against quizID and
// saves it. The sheet's own score is ignored.
func (s *Service) UploadAnswerSheet(ctx context.Context, quizID string, data []byte) (*quiz.Result, error) {
	q, err := s.requireQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	sheet, err := quiz.ParseAnswerSheet(data)
	if err != nil {
		return nil, err
	}
	if sheet.QuizTitle != "" && sheet.QuizTitle != q.Title {
		s.logger.Warn("answer sheet title differs from quiz", zap.String("sheet_title", sheet.QuizTitle), zap.String("quiz_title", q.Title))
	}

	result, err := scoring.FromAnswerSheet(q, sheet.AnsweredQuestions)
	if err != nil {
		return nil, err
	}
	result.StartTime = s.now()

	return s.save(ctx, *result, SourceAnswerSheet)
}

// AnalyzeResult asks the provider for strengths and improvements on one
// attempt.
func (s *Service) AnalyzeResult(ctx context.Context, resultID string) (*analysis.Report, error) {
	if s.analyzer == nil {
		return nil, s.aiErr
	}
	return s.analyzer.AnalyzeResult(ctx, resultID)
}

// AnalyzeSubject asks the provider for strengths and improvements across
// the subject's recent attempts.
func (s *Service) AnalyzeSubject(ctx context.Context, subjectID string) (*analysis.Report, error) {
	if s.analyzer == nil {
		return nil, s.aiErr
	}
	return s.analyzer.AnalyzeSubject(ctx, subjectID)
}

func (s *Service) save(ctx context.Context, r quiz.Result, source string) (*quiz.Result, error) {
	saved, err := s.store.SaveQuizResult(ctx, r)
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.ObserveAttempt(source, saved.Score)
	}
	s.logger.Info("saved quiz result",
		zap.String("result_id", saved.ID),
		zap.String("quiz_id", saved.QuizID),
		zap.String("source", source),
		zap.Float64("score", saved.Score),
	)
	return saved, nil
}

func (s *Service) requireSubject(ctx context.Context, id string) error {
	sub, err := s.store.GetSubject(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Service) requireQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	return q, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// IsNotFound reports whether err means a requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, analysis.ErrNotFound)
}
