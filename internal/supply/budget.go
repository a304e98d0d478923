package supply

import "github.com/abhisek/quizsupply/internal/question"

// Budget bounds the generator calls a tier may make. Every call counts,
// whether it yields a record, fails verification or returns nothing, so a
// generator tier always terminates after Limit calls.
type Budget struct {
	limit    int
	used     int
	failures int
}

// NewBudget returns a budget of limit attempts.
func NewBudget(limit int) *Budget {
	return &Budget{limit: max(limit, 0)}
}

// Attempt calls gen until it yields a record or the budget runs out. The
// boolean is false once the budget is exhausted.
func (b *Budget) Attempt(gen func() (*question.Record, error)) (question.Record, bool) {
	for b.used < b.limit {
		b.used++
		rec, err := gen()
		if err != nil || rec == nil {
			b.failures++
			continue
		}
		return *rec, true
	}
	return question.Record{}, false
}

// Exhausted reports whether no attempts remain.
func (b *Budget) Exhausted() bool { return b.used >= b.limit }

// Used returns the number of attempts made.
func (b *Budget) Used() int { return b.used }

// Failures returns the number of attempts that yielded nothing.
func (b *Budget) Failures() int { return b.failures }

// Limit returns the total number of attempts allowed.
func (b *Budget) Limit() int { return b.limit }
