package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"

	entschema "github.com/abhisek/quizsupply/ent/schema"
	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
	if s.Dialect() != dialect.SQLite {
		t.Errorf("dialect = %q, want %q", s.Dialect(), dialect.SQLite)
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://user:pw@localhost:5432/quiz", dialect.Postgres},
		{"postgresql://localhost/quiz", dialect.Postgres},
		{"/var/lib/quizsupply/quizsupply.db", dialect.SQLite},
		{"file::memory:?cache=shared", dialect.SQLite},
	}
	for _, tt := range tests {
		if got := DialectFor(tt.dsn); got != tt.want {
			t.Errorf("DialectFor(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"questions", "supply_events", "seen_signatures", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestTablesMatchEntSchema(t *testing.T) {
	fieldNames := func(fields ...[]ent.Field) []string {
		var names []string
		for _, fs := range fields {
			for _, f := range fs {
				names = append(names, f.Descriptor().Name)
			}
		}
		return names
	}
	columnNames := func(cols []string, skipID bool) []string {
		if skipID {
			return cols[1:]
		}
		return cols
	}
	tableColumns := func(tbl string) []string {
		for _, t := range Tables {
			if t.Name == tbl {
				var out []string
				for _, c := range t.Columns {
					out = append(out, c.Name)
				}
				return out
			}
		}
		return nil
	}

	tests := []struct {
		table  string
		fields []string
		skipID bool
	}{
		{"questions", fieldNames(entschema.Question{}.Fields()), false},
		{"supply_events", fieldNames(entschema.EventMixin{}.Fields(), entschema.SupplyEvent{}.Fields()), true},
		{"seen_signatures", fieldNames(entschema.SeenSignature{}.Fields()), true},
	}
	for _, tt := range tests {
		got := columnNames(tableColumns(tt.table), tt.skipID)
		if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
			t.Errorf("%s columns = %v, ent schema fields = %v", tt.table, got, tt.fields)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	// A second counter over the same table continues the sequence.
	sc, err := newSequenceCounter(ctx, s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}
	seq, err := sc.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 6 {
		t.Errorf("seq after reopen = %d, want 6", seq)
	}
}

func sampleRecord(id, content string) question.Record {
	return question.Record{
		ID:            id,
		Content:       content,
		Type:          question.TypeMultipleChoice,
		Options:       []string{"1", "2", "3", "4"},
		CorrectAnswer: "2",
		Explanation:   "Count them.",
		Subject:       question.SubjectMath,
		Topic:         "counting",
		Grade:         3,
		Difficulty:    question.DifficultyEasy,
		Tags:          []string{"seed"},
	}
}

func TestQuestionRepoUpsertAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	recs := []question.Record{
		sampleRecord("q1", "How many apples?"),
		sampleRecord("q2", "How many pears?"),
	}
	other := sampleRecord("q3", "How many plums?")
	other.Difficulty = question.DifficultyHard
	recs = append(recs, other)

	n, err := repo.Upsert(ctx, recs)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 3 {
		t.Errorf("upserted = %d, want 3", n)
	}

	got, err := repo.Query(ctx, 3, question.SubjectMath, question.DifficultyEasy)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("query returned %d records, want 2", len(got))
	}
	if got[0].ID != "q1" || got[0].Content != "How many apples?" {
		t.Errorf("first record = %+v", got[0])
	}
	if got[0].CorrectIndex() != 1 {
		t.Errorf("correct index = %d, want 1", got[0].CorrectIndex())
	}
	if !got[0].HasTag("seed") {
		t.Errorf("tags = %v, want seed", got[0].Tags)
	}
	if got[0].Provenance.Source != question.SourceCorpus {
		t.Errorf("source = %q, want %q", got[0].Provenance.Source, question.SourceCorpus)
	}

	// Replacing by ID updates in place.
	changed := sampleRecord("q1", "How many oranges?")
	if _, err := repo.Upsert(ctx, []question.Record{changed}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all[0].Content != "How many oranges?" {
		t.Errorf("q1 content = %q, want replaced", all[0].Content)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if count, _ := repo.Count(ctx); count != 0 {
		t.Errorf("count after delete = %d, want 0", count)
	}
}

func TestQuestionRepoUpsertDuplicateIDsInOneCall(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	recs := []question.Record{
		sampleRecord("dup", "First version?"),
		sampleRecord("dup", "Second version?"),
	}
	n, err := repo.Upsert(ctx, recs)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 1 {
		t.Errorf("upserted = %d, want 1", n)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 || all[0].Content != "Second version?" {
		t.Errorf("stored = %+v, want the later record", all)
	}
}

func TestQuestionRepoUpsertManyBatches(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	var recs []question.Record
	for i := 0; i < upsertBatch*2+7; i++ {
		recs = append(recs, sampleRecord(fmt.Sprintf("q%03d", i), fmt.Sprintf("Question number %d?", i)))
	}
	if _, err := repo.Upsert(ctx, recs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(recs) {
		t.Errorf("count = %d, want %d", count, len(recs))
	}
}

func TestEventRepoAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, outcome := range []string{"ok", "partial", "critical"} {
		err := repo.AppendSupply(ctx, SupplyEventData{
			Grade:        5,
			Subject:      "Math",
			Difficulty:   "medium",
			DesiredCount: 10,
			Delivered:    10 - i*3,
			Outcome:      outcome,
			TierCounts:   map[string]int{"EXACT_MATCH": 10 - i*3},
			Warnings:     []string{fmt.Sprintf("warning %d", i)},
			LatencyMs:    int64(i),
			Seed:         1<<63 + uint64(i),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.ListSupply(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Sequence != int64(i+1) {
			t.Errorf("events[%d].Sequence = %d, want %d", i, ev.Sequence, i+1)
		}
	}
	if events[1].Outcome != "partial" || events[1].Delivered != 7 {
		t.Errorf("events[1] = %+v", events[1])
	}
	if events[2].TierCounts["EXACT_MATCH"] != 4 {
		t.Errorf("tier counts = %v", events[2].TierCounts)
	}
	if events[0].Seed != 1<<63 {
		t.Errorf("seed = %d, want %d", events[0].Seed, uint64(1<<63))
	}

	after, err := repo.ListSupply(ctx, QueryOpts{After: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].Sequence != 2 {
		t.Errorf("list after 1 limit 1 = %+v", after)
	}

	future, err := repo.ListSupply(ctx, QueryOpts{From: time.Now().UTC().Add(time.Hour)})
	if err != nil {
		t.Fatalf("list future: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("future events = %d, want 0", len(future))
	}
}

func TestSignatureRepoJournal(t *testing.T) {
	s := openTestStore(t)
	repo := s.SignatureRepo()
	ctx := context.Background()

	sigs := []dedup.Signatures{
		{Content: "what is 2 2", AnswerSet: "3 | 4 | 5"},
		{Content: "what is 3 3", AnswerSet: "5 | 6 | 7"},
	}
	if err := repo.AppendSignatures(ctx, sigs); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Re-appending, or colliding on one column, is ignored.
	more := []dedup.Signatures{
		sigs[0],
		{Content: "what is 3 3", AnswerSet: "8 | 9"},
		{Content: "what is 4 4", AnswerSet: "7 | 8 | 9"},
	}
	if err := repo.AppendSignatures(ctx, more); err != nil {
		t.Fatalf("append again: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	idx := dedup.NewIndex()
	n, err := dedup.Restore(ctx, repo, idx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 3 {
		t.Errorf("restored = %d, want 3", n)
	}
	if !idx.Contains(sigs[1]) {
		t.Error("restored index should contain the second pair")
	}

	if err := dedup.Reset(ctx, repo, idx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if count, _ := repo.Count(ctx); count != 0 {
		t.Errorf("count after reset = %d, want 0", count)
	}
	if idx.Contains(sigs[1]) {
		t.Error("index should be empty after reset")
	}
}
