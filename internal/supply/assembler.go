package supply

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/question"
)

// assembler claims candidates in the global index and builds the result.
// Claims are made one record at a time with dedup.Index.Claim, so two
// concurrent calls can never both emit a record with the same signature.
type assembler struct {
	index   *dedup.Index
	emitted []candidate
	lost    int
}

func (a *assembler) len() int { return len(a.emitted) }

// claim takes candidates from the front of pending until desired records
// are emitted. Candidates whose signatures were claimed elsewhere since they
// were filtered are returned so the caller can free them from its batch.
func (a *assembler) claim(pending *[]candidate, desired int) (lost []candidate) {
	q := *pending
	for len(q) > 0 && len(a.emitted) < desired {
		c := q[0]
		q = q[1:]
		if a.index.Claim(c.sigs) {
			c.src.claimed++
			a.emitted = append(a.emitted, c)
			continue
		}
		a.lost++
		lost = append(lost, c)
	}
	*pending = q
	return lost
}

// rollback releases every claim made by this call.
func (a *assembler) rollback() {
	for _, c := range a.emitted {
		a.index.Release(c.sigs)
	}
	a.emitted = nil
}

// signatures returns the claimed pairs in claim order.
func (a *assembler) signatures() []dedup.Signatures {
	out := make([]dedup.Signatures, len(a.emitted))
	for i, c := range a.emitted {
		out[i] = c.sigs
	}
	return out
}

// result shuffles the emitted records and attaches tier counts and warnings.
func (a *assembler) result(r *run, seed uint64) *Result {
	questions := make([]question.Record, len(a.emitted))
	counts := make(map[Tier]int)
	for i, c := range a.emitted {
		questions[i] = c.rec
		counts[c.src.tier]++
	}
	r.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	res := &Result{
		Combination: r.req.Combination(),
		Questions:   questions,
		TierCounts:  counts,
		Seed:        seed,
	}

	desired := r.req.DesiredCount
	if len(questions) < desired {
		res.Partial = true
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"partial result for %s: %d of %d questions available after all tiers",
			res.Combination, len(questions), desired))
	}
	if beyond := len(questions) - counts[TierExactMatch]; beyond > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"corpus is thin for %s: %d of %d questions came from tiers beyond %s (%s)",
			res.Combination, beyond, len(questions), TierExactMatch, formatCounts(counts)))
	}
	if len(questions) < desired || counts[TierExactMatch] < desired {
		for _, e := range r.exhaustions() {
			res.Warnings = append(res.Warnings, e.String())
		}
	}
	res.Warnings = append(res.Warnings, r.notes...)
	if a.lost > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d candidates were claimed by concurrent requests and replaced", a.lost))
	}
	if len(r.rejected) > 0 {
		res.Warnings = append(res.Warnings, "filtered candidates: "+formatRejections(r.rejected))
	}
	return res
}

// formatCounts renders tier counts in tier order, e.g.
// "EXACT_MATCH=6, TEMPLATE_GENERATE=19".
func formatCounts(counts map[Tier]int) string {
	tiers := make([]Tier, 0, len(counts))
	for t, n := range counts {
		if n > 0 {
			tiers = append(tiers, t)
		}
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Rank() < tiers[j].Rank() })
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = fmt.Sprintf("%s=%d", t, counts[t])
	}
	return strings.Join(parts, ", ")
}

// formatRejections renders rejection counts sorted by reason, e.g.
// "placeholder=2, seen=5".
func formatRejections(rejected map[string]int) string {
	reasons := make([]string, 0, len(rejected))
	for reason := range rejected {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = fmt.Sprintf("%s=%d", reason, rejected[reason])
	}
	return strings.Join(parts, ", ")
}
