package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SeenSignature persists one claimed entry of the global dedup index.
type SeenSignature struct {
	ent.Schema
}

func (SeenSignature) Fields() []ent.Field {
	return []ent.Field{
		field.String("content_signature").
			Unique().
			Immutable(),
		field.String("answer_set_signature").
			Unique().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
