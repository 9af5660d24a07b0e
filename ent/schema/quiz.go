package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Quiz is an ordered set of multiple-choice questions owned by a subject.
type Quiz struct {
	ent.Schema
}

func (Quiz) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("title"),
		field.String("subject_id").
			Comment("Owning subject; checked at write time unless reference checks are off"),
		field.String("difficulty").
			Optional().
			Nillable().
			Comment("Easy, Medium or Hard"),
		field.String("type").
			Optional().
			Nillable().
			Comment("Numerical or Theory"),
		field.JSON("questions", []map[string]any{}).
			Comment("Ordered questions with their answer options"),
		field.Time("created_at").
			Immutable(),
	}
}

func (Quiz) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("subject_id"),
	}
}
