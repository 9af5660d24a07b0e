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

var quizColumns = []string{"id", "title", "subject_id", "difficulty", "type", "questions", "created_at"}

// CreateQuiz persists a quiz. The id and creation time of the argument are
// ignored and assigned by the store. The one-correct-answer rule is not
// checked here.
func (s *Store) CreateQuiz(ctx context.Context, in quiz.Quiz) (*quiz.Quiz, error) {
	if s.enforceRefs {
		sub, err := s.GetSubject(ctx, in.SubjectID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, fmt.Errorf("create quiz: subject %q: %w", in.SubjectID, ErrMissingReference)
		}
	}

	questions := in.Questions
	if questions == nil {
		questions = []quiz.Question{}
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, &StorageError{Op: "create quiz", Err: fmt.Errorf("encode questions: %w", err)}
	}

	out := in
	out.ID = uuid.NewString()
	out.CreatedAt = s.timestamp()
	out.Questions = questions

	q := builder().Insert(quizzesTable).
		Columns(quizColumns...).
		Values(out.ID, out.Title, out.SubjectID, nullString(string(out.Difficulty)), nullString(string(out.Kind)), string(raw), out.CreatedAt)
	if _, err := s.exec(ctx, "create quiz", q); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuiz returns the quiz with the given id, or nil if none exists.
func (s *Store) GetQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	q := builder().Select(quizColumns...).
		From(entsql.Table(quizzesTable)).
		Where(entsql.EQ("id", id))

	var found *quiz.Quiz
	err := s.query(ctx, "get quiz", q, func(rows *sql.Rows) error {
		qz, err := scanQuiz(rows)
		found = qz
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListQuizzesBySubject returns the quizzes owned by a subject in creation
// order. The slice is empty, never nil, when there are none.
func (s *Store) ListQuizzesBySubject(ctx context.Context, subjectID string) ([]quiz.Quiz, error) {
	q := builder().Select(quizColumns...).
		From(entsql.Table(quizzesTable)).
		Where(entsql.EQ("subject_id", subjectID)).
		OrderBy("created_at", "id")

	quizzes := []quiz.Quiz{}
	err := s.query(ctx, "list quizzes", q, func(rows *sql.Rows) error {
		qz, err := scanQuiz(rows)
		if err != nil {
			return err
		}
		quizzes = append(quizzes, *qz)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// CountQuizzesBySubject returns the number of quizzes owned by a subject.
func (s *Store) CountQuizzesBySubject(ctx context.Context, subjectID string) (int, error) {
	return s.count(ctx, "count quizzes", quizzesTable, "subject_id", subjectID)
}

func scanQuiz(rows *sql.Rows) (*quiz.Quiz, error) {
	var (
		qz         quiz.Quiz
		difficulty sql.NullString
		kind       sql.NullString
		raw        []byte
	)
	if err := rows.Scan(&qz.ID, &qz.Title, &qz.SubjectID, &difficulty, &kind, &raw, &qz.CreatedAt); err != nil {
		return nil, err
	}
	qz.Difficulty = quiz.Difficulty(difficulty.String)
	qz.Kind = quiz.Kind(kind.String)
	qz.CreatedAt = qz.CreatedAt.UTC()
	if err := json.Unmarshal(raw, &qz.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of quiz %s: %w", qz.ID, err)
	}
	if qz.Questions == nil {
		qz.Questions = []quiz.Question{}
	}
	return &qz, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
