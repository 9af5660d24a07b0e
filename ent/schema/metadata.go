package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Metadata is a key/value table for persisted markers such as the seed flag.
type Metadata struct {
	ent.Schema
}

func (Metadata) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			Unique(),
		field.String("value"),
	}
}
