package supply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/store"
)

// fixture builds corpus records whose prompts and option sets never collide.
type fixture struct {
	n int
}

func (f *fixture) record(subject question.Subject, grade question.Grade, diff question.Difficulty) question.Record {
	f.n++
	ans := 1000 + f.n*7
	opts := []string{
		fmt.Sprint(ans), fmt.Sprint(ans + 1), fmt.Sprint(ans + 2), fmt.Sprint(ans + 3),
	}
	return question.Record{
		ID:            fmt.Sprintf("fx-%d", f.n),
		Content:       fmt.Sprintf("A library shelf %d holds %d books. How many books are on shelf %d?", f.n, ans, f.n),
		Type:          question.TypeMultipleChoice,
		Options:       opts,
		CorrectAnswer: opts[0],
		Explanation:   "Read the number of books from the prompt.",
		Subject:       subject,
		Topic:         "reading numbers",
		Grade:         grade,
		Difficulty:    diff,
	}
}

func (f *fixture) records(count int, subject question.Subject, grade question.Grade, diff question.Difficulty) []question.Record {
	out := make([]question.Record, count)
	for i := range out {
		out[i] = f.record(subject, grade, diff)
	}
	return out
}

// stubGenerator serves a fixed list of records in a cycle and counts calls.
// An empty list makes every call fail.
type stubGenerator struct {
	subject question.Subject
	recs    []question.Record

	mu    sync.Mutex
	calls int
}

func (g *stubGenerator) Name() string              { return "stub" }
func (g *stubGenerator) Subject() question.Subject { return g.subject }

func (g *stubGenerator) Generate(question.Grade, question.Difficulty, uint64) (*question.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.recs) == 0 {
		return nil, errors.New("stub: nothing to generate")
	}
	r := g.recs[(g.calls-1)%len(g.recs)].Clone()
	r.Provenance.Source = "stub"
	return &r, nil
}

func (g *stubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// memJournal is an in-memory dedup.Journal.
type memJournal struct {
	mu   sync.Mutex
	sigs []dedup.Signatures
	err  error
}

func (j *memJournal) AppendSignatures(_ context.Context, sigs []dedup.Signatures) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.sigs = append(j.sigs, sigs...)
	return nil
}

func (j *memJournal) LoadSignatures(context.Context) ([]dedup.Signatures, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]dedup.Signatures(nil), j.sigs...), nil
}

func (j *memJournal) ResetSignatures(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sigs = nil
	return nil
}

// memEventRepo is an in-memory store.EventRepo.
type memEventRepo struct {
	events []store.SupplyEventData
	err    error
}

func (m *memEventRepo) AppendSupply(_ context.Context, data store.SupplyEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, data)
	return nil
}

func (m *memEventRepo) ListSupply(context.Context, store.QueryOpts) ([]store.SupplyEvent, error) {
	out := make([]store.SupplyEvent, len(m.events))
	for i, e := range m.events {
		out[i] = store.SupplyEvent{ID: i + 1, Sequence: int64(i + 1), SupplyEventData: e}
	}
	return out, nil
}

// funcSupplier adapts a function to Supplier.
type funcSupplier func(context.Context, Request) (*Result, error)

func (f funcSupplier) Supply(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
