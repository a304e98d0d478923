package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizsupply/internal/question"
)

// upsertBatch bounds the rows per INSERT so SQLite stays under its bound
// parameter limit.
const upsertBatch = 50

var questionColumns = []string{
	"id", "content", "type", "options", "correct_answer", "explanation",
	"subject", "topic", "grade", "difficulty", "tags", "content_signature", "created_at",
}

type questionRepo struct {
	drv     *entsql.Driver
	dialect string
}

func (r *questionRepo) Upsert(ctx context.Context, records []question.Record) (int, error) {
	records = lastByID(records)
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	now := time.Now().UTC()
	for start := 0; start < len(records); start += upsertBatch {
		end := min(start+upsertBatch, len(records))
		ins := builder(r.dialect).Insert(QuestionsTable.Name).Columns(questionColumns...)
		for _, rec := range records[start:end] {
			vals, err := questionValues(rec, now)
			if err != nil {
				tx.Rollback()
				return 0, fmt.Errorf("question %s: %w", rec.ID, err)
			}
			ins.Values(vals...)
		}
		// created_at keeps its first value on replace.
		ins.OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range questionColumns[1 : len(questionColumns)-1] {
					u.SetExcluded(c)
				}
			}),
		)
		q, args := ins.Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert questions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// lastByID drops earlier records that share an ID with a later one, since a
// single upsert statement cannot touch the same row twice.
func lastByID(records []question.Record) []question.Record {
	pos := make(map[string]int, len(records))
	out := make([]question.Record, 0, len(records))
	for _, rec := range records {
		if i, ok := pos[rec.ID]; ok {
			out[i] = rec
			continue
		}
		pos[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out
}

func questionValues(rec question.Record, now time.Time) ([]any, error) {
	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return nil, err
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	typ := rec.Type
	if typ == "" {
		typ = question.TypeMultipleChoice
	}
	return []any{
		rec.ID, rec.Content, string(typ), string(opts), rec.CorrectAnswer, rec.Explanation,
		string(rec.Subject), rec.Topic, int(rec.Grade), string(rec.Difficulty),
		string(tagsJSON), rec.ContentSignature(), now,
	}, nil
}

func (r *questionRepo) All(ctx context.Context) ([]question.Record, error) {
	return r.selectRecords(ctx, nil)
}

func (r *questionRepo) Query(ctx context.Context, grade question.Grade, subject question.Subject, difficulty question.Difficulty) ([]question.Record, error) {
	return r.selectRecords(ctx, entsql.And(
		entsql.EQ("grade", int(grade)),
		entsql.EQ("subject", string(subject)),
		entsql.EQ("difficulty", string(difficulty)),
	))
}

func (r *questionRepo) selectRecords(ctx context.Context, where *entsql.Predicate) ([]question.Record, error) {
	b := builder(r.dialect)
	sel := b.Select(questionColumns[:len(questionColumns)-1]...).
		From(b.Table(QuestionsTable.Name)).
		OrderBy("id")
	if where != nil {
		sel.Where(where)
	}
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []question.Record
	for rows.Next() {
		var (
			rec                           question.Record
			typ, opts, subject, diff, tag string
			grade                         int
		)
		if err := rows.Scan(&rec.ID, &rec.Content, &typ, &opts, &rec.CorrectAnswer, &rec.Explanation,
			&subject, &rec.Topic, &grade, &diff, &tag, new(string)); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &rec.Options); err != nil {
			return nil, fmt.Errorf("question %s options: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(tag), &rec.Tags); err != nil {
			return nil, fmt.Errorf("question %s tags: %w", rec.ID, err)
		}
		if len(rec.Tags) == 0 {
			rec.Tags = nil
		}
		rec.Type = question.Type(typ)
		rec.Subject = question.Subject(subject)
		rec.Grade = question.Grade(grade)
		rec.Difficulty = question.Difficulty(diff)
		rec.Provenance.Source = question.SourceCorpus
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.drv, r.dialect, QuestionsTable.Name)
}

func (r *questionRepo) DeleteAll(ctx context.Context) error {
	q, args := builder(r.dialect).Delete(QuestionsTable.Name).Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// countRows returns SELECT COUNT(*) for table.
func countRows(ctx context.Context, drv dialect.Driver, d, table string) (int, error) {
	b := builder(d)
	q, args := b.Select().From(b.Table(table)).Count().Query()

	var rows entsql.Rows
	if err := drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
