// Package stats derives summary statistics over subjects, quizzes and
// results. Nothing here is persisted.
package stats

import (
	"context"
	"fmt"

	"github.com/abhisek/quizvault/internal/quiz"
)

// Reader is the subset of the store that aggregation reads from.
type Reader interface {
	ListSubjects(ctx context.Context) ([]quiz.Subject, error)
	CountQuizzesBySubject(ctx context.Context, subjectID string) (int, error)
	ListQuizResultsBySubject(ctx context.Context, subjectID string) ([]quiz.Result, error)
	ListRecentResults(ctx context.Context, limit int) ([]quiz.Result, error)
}

// Summary holds the statistics of one subject.
type Summary struct {
	SubjectID     string  `json:"subjectId"`
	TotalQuizzes  int     `json:"totalQuizzes"`
	AverageScore  float64 `json:"averageScore"`
	TotalAttempts int     `json:"totalAttempts"`
}

// SubjectSummary pairs a subject with its statistics.
type SubjectSummary struct {
	Subject quiz.Subject `json:"subject"`
	Summary
}

// Overview is the dashboard-level aggregation.
type Overview struct {
	Subjects      []SubjectSummary `json:"subjects"`
	TotalQuizzes  int              `json:"totalQuizzes"`
	TotalAttempts int              `json:"totalAttempts"`
	// AverageScore is the unweighted mean of the per-subject averages.
	// Subjects without attempts contribute 0.
	AverageScore  float64       `json:"averageScore"`
	RecentResults []quiz.Result `json:"recentResults"`
}

// Service computes statistics from a Reader.
type Service struct {
	store Reader
}

// New creates a stats Service.
func New(r Reader) *Service {
	return &Service{store: r}
}

// SubjectStats counts quizzes and attempts for a subject and averages the
// attempt scores. The average is 0 when there are no attempts.
func (s *Service) SubjectStats(ctx context.Context, subjectID string) (Summary, error) {
	quizzes, err := s.store.CountQuizzesBySubject(ctx, subjectID)
	if err != nil {
		return Summary{}, fmt.Errorf("subject stats: %w", err)
	}
	results, err := s.store.ListQuizResultsBySubject(ctx, subjectID)
	if err != nil {
		return Summary{}, fmt.Errorf("subject stats: %w", err)
	}

	return Summary{
		SubjectID:     subjectID,
		TotalQuizzes:  quizzes,
		AverageScore:  MeanScore(results),
		TotalAttempts: len(results),
	}, nil
}

// Dashboard aggregates every subject. recent bounds the number of latest
// results included; zero omits them.
func (s *Service) Dashboard(ctx context.Context, recent int) (Overview, error) {
	subjects, err := s.store.ListSubjects(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("dashboard: %w", err)
	}

	ov := Overview{
		Subjects:      make([]SubjectSummary, 0, len(subjects)),
		RecentResults: []quiz.Result{},
	}
	var sumOfAverages float64
	for _, sub := range subjects {
		sum, err := s.SubjectStats(ctx, sub.ID)
		if err != nil {
			return Overview{}, err
		}
		ov.Subjects = append(ov.Subjects, SubjectSummary{Subject: sub, Summary: sum})
		ov.TotalQuizzes += sum.TotalQuizzes
		ov.TotalAttempts += sum.TotalAttempts
		sumOfAverages += sum.AverageScore
	}
	if len(subjects) > 0 {
		ov.AverageScore = sumOfAverages / float64(len(subjects))
	}

	if recent > 0 {
		ov.RecentResults, err = s.store.ListRecentResults(ctx, recent)
		if err != nil {
			return Overview{}, fmt.Errorf("dashboard: %w", err)
		}
	}
	return ov, nil
}

// MeanScore is the arithmetic mean of the result scores, or 0 for none.
func MeanScore(results []quiz.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var total float64
	for _, r := range results {
		total += r.Score
	}
	return total / float64(len(results))
}
