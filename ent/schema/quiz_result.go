package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizResult is one graded, append-only attempt at a quiz.
type QuizResult struct {
	ent.Schema
}

func (QuizResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("quiz_id").
			Immutable(),
		field.String("subject_id").
			Immutable(),
		field.Float("score").
			Min(0).
			Max(100).
			Immutable(),
		field.Int("total_questions").
			Immutable(),
		field.Int("correct_answers").
			Immutable(),
		field.JSON("answered_questions", []map[string]any{}).
			Immutable().
			Comment("Denormalized per-question review snapshot"),
		field.Time("start_time").
			Optional().
			Nillable().
			Immutable(),
		field.Time("completed_at").
			Immutable(),
	}
}

func (QuizResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("subject_id", "completed_at"),
		index.Fields("quiz_id"),
	}
}
