package supply

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/templates"
)

// tierSource yields the candidates of one tier until it runs dry.
type tierSource struct {
	tier   Tier
	next   func() (question.Record, bool)
	budget *Budget // nil for corpus tiers

	// note explains an empty source, e.g. a missing generator.
	note     string
	reported bool

	// claimed counts candidates from this source that won their index claim.
	claimed int
}

func (s *tierSource) exhaustion() TierExhaustion {
	e := TierExhaustion{Tier: s.tier, Contributed: s.claimed}
	if s.budget != nil {
		e.Attempts = s.budget.Used()
		e.Failures = s.budget.Failures()
	}
	return e
}

// corpusSource walks groups of records in order. Each group is visited in a
// random order drawn from rng; the shared corpus slices are never modified.
func corpusSource(tier Tier, rng *rand.Rand, groups ...[]question.Record) *tierSource {
	type ref struct{ group, idx int }
	var order []ref
	for g, recs := range groups {
		perm := rng.Perm(len(recs))
		for _, i := range perm {
			order = append(order, ref{g, i})
		}
	}
	pos := 0
	return &tierSource{
		tier: tier,
		next: func() (question.Record, bool) {
			if pos >= len(order) {
				return question.Record{}, false
			}
			r := order[pos]
			pos++
			return groups[r.group][r.idx], true
		},
	}
}

// generatorSource calls gen within budget. Each attempt gets a fresh seed
// from rng. A nil generator yields nothing.
func generatorSource(tier Tier, gen templates.Generator, budget *Budget, rng *rand.Rand, grade question.Grade, difficulty question.Difficulty) *tierSource {
	src := &tierSource{tier: tier, budget: budget}
	if gen == nil {
		src.note = "no generator registered"
		src.next = func() (question.Record, bool) { return question.Record{}, false }
		return src
	}
	src.next = func() (question.Record, bool) {
		return budget.Attempt(func() (*question.Record, error) {
			return gen.Generate(grade, difficulty, rng.Uint64())
		})
	}
	return src
}

// exactSource queries the requested combination.
func exactSource(c corpus.Corpus, req Request, rng *rand.Rand) *tierSource {
	return corpusSource(TierExactMatch, rng, c.Query(req.Grade, req.Subject, req.Difficulty))
}

// relaxedSource loosens difficulty to adjacent levels, then, when grades
// may be relaxed, moves to adjacent grades at the requested difficulty.
func relaxedSource(c corpus.Corpus, req Request, relaxGrades bool, rng *rand.Rand) *tierSource {
	var groups [][]question.Record
	for _, d := range req.Difficulty.Adjacent() {
		groups = append(groups, c.Query(req.Grade, req.Subject, d))
	}
	if relaxGrades {
		for _, g := range req.Grade.Adjacent() {
			groups = append(groups, c.Query(g, req.Subject, req.Difficulty))
		}
	}
	return corpusSource(TierRelaxedMatch, rng, groups...)
}

// crossSubjectSource draws from other subjects, related ones first, at the
// requested difficulty and then at adjacent difficulties.
func crossSubjectSource(c corpus.Corpus, req Request, rng *rand.Rand) *tierSource {
	others := req.Subject.FallbackSubjects()
	var groups [][]question.Record
	for _, s := range others {
		groups = append(groups, c.Query(req.Grade, s, req.Difficulty))
	}
	for _, s := range others {
		for _, d := range req.Difficulty.Adjacent() {
			groups = append(groups, c.Query(req.Grade, s, d))
		}
	}
	return corpusSource(TierCrossSubject, rng, groups...)
}

// templateSource runs the subject's generator.
func templateSource(reg *templates.Registry, req Request, factor int, rng *rand.Rand) *tierSource {
	var gen templates.Generator
	if reg != nil {
		if g, ok := reg.For(req.Subject); ok {
			gen = g
		}
	}
	src := generatorSource(TierTemplateGenerate, gen, NewBudget(req.DesiredCount*factor), rng, req.Grade, req.Difficulty)
	if gen == nil {
		src.note = fmt.Sprintf("no template generator for %s", req.Subject)
	}
	return src
}

// emergencySource runs the registry's last-resort generator.
func emergencySource(reg *templates.Registry, req Request, factor int, rng *rand.Rand) *tierSource {
	var gen templates.Generator
	if reg != nil {
		gen = reg.Emergency()
	}
	src := generatorSource(TierEmergencySynthesis, gen, NewBudget(req.DesiredCount*factor), rng, req.Grade, req.Difficulty)
	if gen == nil {
		src.note = "no emergency generator registered"
	}
	return src
}
