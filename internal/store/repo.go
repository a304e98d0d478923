package store

import (
	"context"
	"time"

	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// QuestionRepo persists the pre-authored corpus.
type QuestionRepo interface {
	// Upsert inserts records, replacing rows with the same ID. It returns
	// the number of records written.
	Upsert(ctx context.Context, records []question.Record) (int, error)

	// All returns every stored record ordered by ID.
	All(ctx context.Context) ([]question.Record, error)

	// Query returns the records for one grade, subject and difficulty.
	Query(ctx context.Context, grade question.Grade, subject question.Subject, difficulty question.Difficulty) ([]question.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every stored record.
	DeleteAll(ctx context.Context) error
}

// SupplyEventData captures one supply call.
type SupplyEventData struct {
	Grade        int
	Subject      string
	Difficulty   string
	DesiredCount int
	Delivered    int
	Outcome      string
	TierCounts   map[string]int
	Warnings     []string
	ErrorMessage string
	LatencyMs    int64
	Seed         uint64
}

// SupplyEvent is a stored supply call.
type SupplyEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SupplyEventData
}

// EventRepo provides append and query access to supply events.
type EventRepo interface {
	// AppendSupply records a supply call event.
	AppendSupply(ctx context.Context, data SupplyEventData) error

	// ListSupply returns supply events ordered by sequence.
	ListSupply(ctx context.Context, opts QueryOpts) ([]SupplyEvent, error)
}

// SignatureRepo persists the global dedup index.
type SignatureRepo interface {
	dedup.Journal

	// Count returns the number of stored signature pairs.
	Count(ctx context.Context) (int, error)
}
