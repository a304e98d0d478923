package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var supplyEventColumns = []string{
	"sequence", "timestamp", "grade", "subject", "difficulty", "desired_count", "delivered",
	"outcome", "tier_counts", "warnings", "error_message", "latency_ms", "seed",
}

// eventRepo implements EventRepo backed by the SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

func (r *eventRepo) AppendSupply(ctx context.Context, data SupplyEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	tiers := data.TierCounts
	if tiers == nil {
		tiers = map[string]int{}
	}
	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		return fmt.Errorf("marshal tier counts: %w", err)
	}
	warnings := data.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	q, args := builder(r.dialect).Insert(SupplyEventsTable.Name).
		Columns(supplyEventColumns...).
		Values(
			seqNum, time.Now().UTC(), data.Grade, data.Subject, data.Difficulty, data.DesiredCount,
			data.Delivered, data.Outcome, string(tiersJSON), string(warningsJSON), data.ErrorMessage,
			data.LatencyMs, int64(data.Seed),
		).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save supply event: %w", err)
	}
	return nil
}

func (r *eventRepo) ListSupply(ctx context.Context, opts QueryOpts) ([]SupplyEvent, error) {
	b := builder(r.dialect)
	sel := b.Select(append([]string{"id"}, supplyEventColumns...)...).
		From(b.Table(SupplyEventsTable.Name)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query supply events: %w", err)
	}
	defer rows.Close()

	var out []SupplyEvent
	for rows.Next() {
		var (
			ev              SupplyEvent
			tiers, warnings string
			seed            int64
		)
		err := rows.Scan(&ev.ID, &ev.Sequence, &ev.Timestamp, &ev.Grade, &ev.Subject, &ev.Difficulty,
			&ev.DesiredCount, &ev.Delivered, &ev.Outcome, &tiers, &warnings, &ev.ErrorMessage,
			&ev.LatencyMs, &seed)
		if err != nil {
			return nil, fmt.Errorf("scan supply event: %w", err)
		}
		if err := json.Unmarshal([]byte(tiers), &ev.TierCounts); err != nil {
			return nil, fmt.Errorf("supply event %d tier counts: %w", ev.ID, err)
		}
		if err := json.Unmarshal([]byte(warnings), &ev.Warnings); err != nil {
			return nil, fmt.Errorf("supply event %d warnings: %w", ev.ID, err)
		}
		ev.Seed = uint64(seed)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supply events: %w", err)
	}
	return out, nil
}
