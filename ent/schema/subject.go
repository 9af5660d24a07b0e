package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Subject is the top-level grouping of quizzes.
type Subject struct {
	ent.Schema
}

func (Subject) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID assigned at creation"),
		field.String("name").
			NotEmpty(),
		field.String("description"),
		field.Time("created_at").
			Immutable(),
	}
}
