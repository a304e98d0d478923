package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizsupply/internal/dedup"
)

// signatureRepo implements SignatureRepo. Rows are insert-only; a pair that
// collides on either unique column is skipped.
type signatureRepo struct {
	drv     *entsql.Driver
	dialect string
}

func (r *signatureRepo) AppendSignatures(ctx context.Context, sigs []dedup.Signatures) error {
	if len(sigs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for start := 0; start < len(sigs); start += upsertBatch {
		end := min(start+upsertBatch, len(sigs))
		ins := builder(r.dialect).Insert(SeenSignaturesTable.Name).
			Columns("content_signature", "answer_set_signature", "created_at")
		for _, s := range sigs[start:end] {
			ins.Values(s.Content, s.AnswerSet, now)
		}
		ins.OnConflict(entsql.DoNothing())
		q, args := ins.Query()
		if err := r.drv.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("append signatures: %w", err)
		}
	}
	return nil
}

func (r *signatureRepo) LoadSignatures(ctx context.Context) ([]dedup.Signatures, error) {
	b := builder(r.dialect)
	q, args := b.Select("content_signature", "answer_set_signature").
		From(b.Table(SeenSignaturesTable.Name)).
		OrderBy("id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	var out []dedup.Signatures
	for rows.Next() {
		var s dedup.Signatures
		if err := rows.Scan(&s.Content, &s.AnswerSet); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}
	return out, nil
}

func (r *signatureRepo) ResetSignatures(ctx context.Context) error {
	q, args := builder(r.dialect).Delete(SeenSignaturesTable.Name).Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("delete signatures: %w", err)
	}
	return nil
}

func (r *signatureRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.drv, r.dialect, SeenSignaturesTable.Name)
}
