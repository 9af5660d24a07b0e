package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/quizvault/internal/quiz"
)

var resultColumns = []string{
	"id", "quiz_id", "subject_id", "score", "total_questions", "correct_answers",
	"answered_questions", "start_time", "completed_at",
}

// SaveQuizResult appends a graded attempt. The id is always assigned by the
// store. A caller-supplied CompletedAt is kept; a zero CompletedAt is
// stamped with the current time. All times are stored in UTC.
func (s *Store) SaveQuizResult(ctx context.Context, in quiz.Result) (*quiz.Result, error) {
	if s.enforceRefs {
		qz, err := s.GetQuiz(ctx, in.QuizID)
		if err != nil {
			return nil, err
		}
		if qz == nil {
			return nil, fmt.Errorf("save quiz result: quiz %q: %w", in.QuizID, ErrMissingReference)
		}
		if in.SubjectID == "" {
			in.SubjectID = qz.SubjectID
		}
		if in.SubjectID != qz.SubjectID {
			return nil, fmt.Errorf("save quiz result: quiz %q belongs to subject %q, not %q: %w",
				in.QuizID, qz.SubjectID, in.SubjectID, ErrMissingReference)
		}
	}

	answered := in.AnsweredQuestions
	if answered == nil {
		answered = []quiz.AnsweredQuestion{}
	}
	raw, err := json.Marshal(answered)
	if err != nil {
		return nil, &StorageError{Op: "save quiz result", Err: fmt.Errorf("encode answered questions: %w", err)}
	}

	out := in
	out.ID = uuid.NewString()
	out.AnsweredQuestions = answered
	if out.CompletedAt.IsZero() {
		out.CompletedAt = s.timestamp()
	}
	out.CompletedAt = out.CompletedAt.UTC()

	var start any
	if !out.StartTime.IsZero() {
		out.StartTime = out.StartTime.UTC()
		start = out.StartTime
	}

	q := builder().Insert(resultsTable).
		Columns(resultColumns...).
		Values(out.ID, out.QuizID, out.SubjectID, out.Score, out.TotalQuestions, out.CorrectAnswers,
			string(raw), start, out.CompletedAt)
	if _, err := s.exec(ctx, "save quiz result", q); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuizResult returns the result with the given id, or nil if none exists.
func (s *Store) GetQuizResult(ctx context.Context, id string) (*quiz.Result, error) {
	q := builder().Select(resultColumns...).
		From(entsql.Table(resultsTable)).
		Where(entsql.EQ("id", id))

	var found *quiz.Result
	err := s.query(ctx, "get quiz result", q, func(rows *sql.Rows) error {
		r, err := scanResult(rows)
		found = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListQuizResultsBySubject returns the subject's results, most recently
// completed first.
func (s *Store) ListQuizResultsBySubject(ctx context.Context, subjectID string) ([]quiz.Result, error) {
	return s.listResults(ctx, "list results by subject", entsql.EQ("subject_id", subjectID), 0)
}

// ListQuizResultsByQuiz returns the attempts at one quiz, most recently
// completed first.
func (s *Store) ListQuizResultsByQuiz(ctx context.Context, quizID string) ([]quiz.Result, error) {
	return s.listResults(ctx, "list results by quiz", entsql.EQ("quiz_id", quizID), 0)
}

// ListRecentResults returns up to limit results across all subjects, most
// recently completed first.
func (s *Store) ListRecentResults(ctx context.Context, limit int) ([]quiz.Result, error) {
	return s.listResults(ctx, "list recent results", nil, limit)
}

// CountResultsBySubject returns the number of attempts recorded for a subject.
func (s *Store) CountResultsBySubject(ctx context.Context, subjectID string) (int, error) {
	return s.count(ctx, "count results", resultsTable, "subject_id", subjectID)
}

func (s *Store) listResults(ctx context.Context, op string, where *entsql.Predicate, limit int) ([]quiz.Result, error) {
	q := builder().Select(resultColumns...).
		From(entsql.Table(resultsTable)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if where != nil {
		q.Where(where)
	}
	if limit > 0 {
		q.Limit(limit)
	}

	results := []quiz.Result{}
	err := s.query(ctx, op, q, func(rows *sql.Rows) error {
		r, err := scanResult(rows)
		if err != nil {
			return err
		}
		results = append(results, *r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func scanResult(rows *sql.Rows) (*quiz.Result, error) {
	var (
		r     quiz.Result
		raw   []byte
		start sql.NullTime
	)
	err := rows.Scan(&r.ID, &r.QuizID, &r.SubjectID, &r.Score, &r.TotalQuestions, &r.CorrectAnswers,
		&raw, &start, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		r.StartTime = start.Time.UTC()
	}
	r.CompletedAt = r.CompletedAt.UTC()
	if err := json.Unmarshal(raw, &r.AnsweredQuestions); err != nil {
		return nil, fmt.Errorf("decode answered questions of result %s: %w", r.ID, err)
	}
	return &r, nil
}
