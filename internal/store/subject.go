package store

import (
	"context"
	"database/sql"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/quizvault/internal/quiz"
)

var subjectColumns = []string{"id", "name", "description", "created_at"}

// CreateSubject persists a new subject and returns it with its id and
// creation time filled in.
func (s *Store) CreateSubject(ctx context.Context, name, description string) (*quiz.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &quiz.ValidationError{Field: "name", Message: "subject name is required"}
	}

	sub := &quiz.Subject{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.timestamp(),
	}

	q := builder().Insert(subjectsTable).
		Columns(subjectColumns...).
		Values(sub.ID, sub.Name, sub.Description, sub.CreatedAt)
	if _, err := s.exec(ctx, "create subject", q); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubjects returns every subject in creation order.
func (s *Store) ListSubjects(ctx context.Context) ([]quiz.Subject, error) {
	q := builder().Select(subjectColumns...).
		From(entsql.Table(subjectsTable)).
		OrderBy("created_at", "id")

	subjects := []quiz.Subject{}
	err := s.query(ctx, "list subjects", q, func(rows *sql.Rows) error {
		sub, err := scanSubject(rows)
		if err != nil {
			return err
		}
		subjects = append(subjects, *sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// GetSubject returns the subject with the given id, or nil if none exists.
func (s *Store) GetSubject(ctx context.Context, id string) (*quiz.Subject, error) {
	q := builder().Select(subjectColumns...).
		From(entsql.Table(subjectsTable)).
		Where(entsql.EQ("id", id))

	var found *quiz.Subject
	err := s.query(ctx, "get subject", q, func(rows *sql.Rows) error {
		sub, err := scanSubject(rows)
		found = sub
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindSubjectByName returns the first subject with exactly this name, or nil.
func (s *Store) FindSubjectByName(ctx context.Context, name string) (*quiz.Subject, error) {
	q := builder().Select(subjectColumns...).
		From(entsql.Table(subjectsTable)).
		Where(entsql.EQ("name", name)).
		OrderBy("created_at").
		Limit(1)

	var found *quiz.Subject
	err := s.query(ctx, "find subject", q, func(rows *sql.Rows) error {
		sub, err := scanSubject(rows)
		found = sub
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func scanSubject(rows *sql.Rows) (*quiz.Subject, error) {
	var sub quiz.Subject
	if err := rows.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.CreatedAt = sub.CreatedAt.UTC()
	return &sub, nil
}
