package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SupplyEvent records one supply call and its outcome.
type SupplyEvent struct {
	ent.Schema
}

func (SupplyEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SupplyEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("grade"),
		field.String("subject"),
		field.String("difficulty"),
		field.Int("desired_count"),
		field.Int("delivered").
			Default(0).
			Comment("Number of questions returned"),
		field.String("outcome").
			Comment("ok, partial, critical or error"),
		field.Text("tier_counts").
			Default("{}").
			Comment("JSON object of tier name to contributed count"),
		field.Text("warnings").
			Default("[]").
			Comment("JSON array of warning strings"),
		field.Text("error_message").
			Default(""),
		field.Int64("latency_ms").
			Default(0),
		field.Int64("seed").
			Default(0).
			Comment("Seed used for shuffling and generation"),
	}
}

func (SupplyEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("grade", "subject", "difficulty"),
		index.Fields("outcome"),
	}
}
