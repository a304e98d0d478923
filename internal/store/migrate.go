package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions mirror ent/schema. TestTablesMatchEntSchema keeps the two
// in step.

const textSize = 2147483647

var (
	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: textSize},
		{Name: "type", Type: field.TypeString, Default: "multiple_choice"},
		{Name: "options", Type: field.TypeString, Size: textSize},
		{Name: "correct_answer", Type: field.TypeString, Size: textSize},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "subject", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeInt},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "tags", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "content_signature", Type: field.TypeString, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "question_grade_subject_difficulty",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[8], QuestionsColumns[6], QuestionsColumns[9]},
			},
			{
				Name:    "question_content_signature",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[11]},
			},
		},
	}

	// SupplyEventsColumns holds the columns for the "supply_events" table.
	SupplyEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "grade", Type: field.TypeInt},
		{Name: "subject", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "desired_count", Type: field.TypeInt},
		{Name: "delivered", Type: field.TypeInt, Default: 0},
		{Name: "outcome", Type: field.TypeString},
		{Name: "tier_counts", Type: field.TypeString, Size: textSize, Default: "{}"},
		{Name: "warnings", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "seed", Type: field.TypeInt64, Default: 0},
	}
	// SupplyEventsTable holds the schema information for the "supply_events" table.
	SupplyEventsTable = &schema.Table{
		Name:       "supply_events",
		Columns:    SupplyEventsColumns,
		PrimaryKey: []*schema.Column{SupplyEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "supplyevent_sequence",
				Unique:  false,
				Columns: []*schema.Column{SupplyEventsColumns[1]},
			},
			{
				Name:    "supplyevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{SupplyEventsColumns[2]},
			},
			{
				Name:    "supplyevent_grade_subject_difficulty",
				Unique:  false,
				Columns: []*schema.Column{SupplyEventsColumns[3], SupplyEventsColumns[4], SupplyEventsColumns[5]},
			},
			{
				Name:    "supplyevent_outcome",
				Unique:  false,
				Columns: []*schema.Column{SupplyEventsColumns[8]},
			},
		},
	}

	// SeenSignaturesColumns holds the columns for the "seen_signatures" table.
	SeenSignaturesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "content_signature", Type: field.TypeString, Size: textSize, Unique: true},
		{Name: "answer_set_signature", Type: field.TypeString, Size: textSize, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SeenSignaturesTable holds the schema information for the "seen_signatures" table.
	SeenSignaturesTable = &schema.Table{
		Name:       "seen_signatures",
		Columns:    SeenSignaturesColumns,
		PrimaryKey: []*schema.Column{SeenSignaturesColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionsTable,
		SupplyEventsTable,
		SeenSignaturesTable,
	}
)
