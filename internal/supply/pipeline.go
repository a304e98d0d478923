// Package supply assembles sets of unique, validated questions for a grade,
// subject and difficulty, falling back through progressively weaker sources
// when the corpus runs short.
package supply

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/validation"
)

// Supplier produces question sets.
type Supplier interface {
	Supply(ctx context.Context, req Request) (*Result, error)
}

// Pipeline implements Supplier over a corpus, a shared dedup index and the
// template generators. It is safe for concurrent use: each call owns its own
// batch and random source, the corpus is read-only, and the index serializes
// its claims.
type Pipeline struct {
	corpus corpus.Corpus
	index  *dedup.Index
	config Config
}

// New creates a Pipeline. A nil index gets a private one; a nil validator
// or registry in cfg falls back to the defaults.
func New(c corpus.Corpus, index *dedup.Index, cfg Config) *Pipeline {
	if c == nil {
		c = corpus.NewSnapshot(nil)
	}
	if index == nil {
		index = dedup.NewIndex()
	}
	def := DefaultConfig()
	if cfg.Validator == nil {
		cfg.Validator = def.Validator
	}
	if cfg.Registry == nil {
		cfg.Registry = def.Registry
	}
	if cfg.MinAcceptableFraction == 0 {
		cfg.MinAcceptableFraction = def.MinAcceptableFraction
	}
	if cfg.TemplateBudgetFactor == 0 {
		cfg.TemplateBudgetFactor = def.TemplateBudgetFactor
	}
	if cfg.EmergencyBudgetFactor == 0 {
		cfg.EmergencyBudgetFactor = def.EmergencyBudgetFactor
	}
	return &Pipeline{corpus: c, index: index, config: cfg}
}

// Index returns the shared dedup index.
func (p *Pipeline) Index() *dedup.Index {
	return p.index
}

// Supply runs the tiers in order until req.DesiredCount records are claimed
// or every tier is exhausted. When still short it makes one extra emergency
// pass. Fewer than the minimum acceptable count yields a
// *CriticalSupplyError and leaves the index untouched; between the minimum
// and the desired count the result is returned with Partial set.
func (p *Pipeline) Supply(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := p.newRun(req, seed)
	asm := &assembler{index: p.index}
	desired := req.DesiredCount

	extraPass := false
	for asm.len() < desired {
		if err := ctx.Err(); err != nil {
			asm.rollback()
			return nil, err
		}
		need := desired - asm.len()
		r.fill(need+p.config.Overshoot, need)
		if len(r.pending) == 0 {
			if extraPass {
				break
			}
			extraPass = true
			r.sources = append(r.sources, emergencySource(p.config.Registry, req, p.config.EmergencyBudgetFactor, r.rng))
			continue
		}
		for _, c := range asm.claim(&r.pending, desired) {
			r.batch.Remove(c.sigs)
		}
	}

	minimum := p.config.MinimumAcceptable(desired)
	if accepted := asm.len(); accepted < minimum {
		asm.rollback()
		return nil, &CriticalSupplyError{
			Combination: req.Combination(),
			Accepted:    accepted,
			Minimum:     minimum,
			Desired:     desired,
			Exhausted:   r.exhaustions(),
			Rejected:    r.rejected,
		}
	}

	res := asm.result(r, seed)
	if p.config.Journal != nil {
		if err := p.config.Journal.AppendSignatures(ctx, asm.signatures()); err != nil {
			msg := fmt.Sprintf("persist claimed signatures: %v", err)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			res.Warnings = append(res.Warnings, msg)
		}
	}
	return res, nil
}

// candidate is a record that passed every filter but is not yet claimed.
type candidate struct {
	rec  question.Record
	sigs dedup.Signatures
	src  *tierSource
}

// run is the state of one Supply call.
type run struct {
	req       Request
	rng       *rand.Rand
	validator *validation.ContentValidator
	index     *dedup.Index
	batch     *dedup.Batch
	excluded  map[string]struct{}

	sources []*tierSource
	cur     int
	pending []candidate

	exhausted []*tierSource
	notes     []string

	// rejected counts filtered candidates by reason: a validator name,
	// "seen", "duplicate" or "excluded".
	rejected map[string]int
}

func (p *Pipeline) newRun(req Request, seed uint64) *run {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	excluded := make(map[string]struct{}, len(req.ExcludedContentSignatures))
	for _, s := range req.ExcludedContentSignatures {
		excluded[question.ContentSignature(s)] = struct{}{}
	}
	cfg := p.config
	return &run{
		req:       req,
		rng:       rng,
		validator: cfg.Validator,
		index:     p.index,
		batch:     dedup.NewBatch(),
		excluded:  excluded,
		sources: []*tierSource{
			exactSource(p.corpus, req, rng),
			relaxedSource(p.corpus, req, cfg.RelaxGrades, rng),
			templateSource(cfg.Registry, req, cfg.TemplateBudgetFactor, rng),
			crossSubjectSource(p.corpus, req, rng),
			emergencySource(cfg.Registry, req, cfg.EmergencyBudgetFactor, rng),
		},
		rejected: make(map[string]int),
	}
}

// fill pulls candidates until target are pending. It only advances to the
// next tier while fewer than need are pending; spares come from the current
// tier alone.
func (r *run) fill(target, need int) {
	for len(r.pending) < target && r.cur < len(r.sources) {
		src := r.sources[r.cur]
		rec, ok := src.next()
		if ok {
			r.consider(src, rec)
			continue
		}
		if len(r.pending) >= need {
			return
		}
		if !src.reported {
			src.reported = true
			r.exhausted = append(r.exhausted, src)
			if src.note != "" {
				r.notes = append(r.notes, fmt.Sprintf("tier %s: %s", src.tier, src.note))
			}
		}
		r.cur++
	}
}

// consider filters one candidate: content validation, then the global
// index, then this call's batch, then the caller's exclusions.
func (r *run) consider(src *tierSource, rec question.Record) {
	if verr := r.validator.Validate(&rec); verr != nil {
		r.rejected[verr.Validator]++
		return
	}
	sigs := dedup.Of(&rec)
	if r.index.Contains(sigs) {
		r.rejected["seen"]++
		return
	}
	if r.batch.Contains(sigs) {
		r.rejected["duplicate"]++
		return
	}
	if _, ok := r.excluded[sigs.Content]; ok {
		r.rejected["excluded"]++
		return
	}

	c := rec.Clone()
	c.Provenance.Tier = string(src.tier)
	r.batch.Add(sigs)
	r.pending = append(r.pending, candidate{rec: c, sigs: sigs, src: src})
}

// exhaustions reports every tier source that ran dry, with the number of
// records it got claimed.
func (r *run) exhaustions() []TierExhaustion {
	out := make([]TierExhaustion, len(r.exhausted))
	for i, src := range r.exhausted {
		out[i] = src.exhaustion()
	}
	return out
}
