package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question is one pre-authored corpus record.
type Question struct {
	ent.Schema
}

func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("Opaque record ID from the seed file"),
		field.Text("content").
			Comment("Prompt shown to the learner"),
		field.String("type").
			Default("multiple_choice"),
		field.Text("options").
			Comment("JSON array of option strings in display order"),
		field.Text("correct_answer"),
		field.Text("explanation").
			Default(""),
		field.String("subject").
			Comment("Canonical subject name"),
		field.String("topic").
			Default(""),
		field.Int("grade").
			Range(1, 12),
		field.String("difficulty").
			Comment("easy, medium or hard"),
		field.Text("tags").
			Default("[]").
			Comment("JSON array of tags"),
		field.String("content_signature").
			Comment("Normalized prompt fingerprint"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("grade", "subject", "difficulty"),
		index.Fields("content_signature"),
	}
}
