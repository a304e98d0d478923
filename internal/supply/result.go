package supply

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// Result is the outcome of a successful supply call.
type Result struct {
	Combination Combination       `json:"combination"`
	Questions   []question.Record `json:"questions"`
	TierCounts  map[Tier]int      `json:"tierCounts"`
	Warnings    []string          `json:"warnings"`

	// Partial is set when fewer than the desired number of questions were
	// available but at least the minimum acceptable number were.
	Partial bool `json:"partial,omitempty"`

	// Seed reproduces the call against the same index state.
	Seed uint64 `json:"seed"`
}

// TiersUsed returns the tiers that contributed, in tier order.
func (r *Result) TiersUsed() []Tier {
	var out []Tier
	for _, t := range AllTiers {
		if r.TierCounts[t] > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Notice returns a learner-facing sentence explaining why questions from
// outside the exact combination were included, or "" when none were.
func (r *Result) Notice() string {
	used := r.TiersUsed()
	if len(used) == 0 || (len(used) == 1 && used[0] == TierExactMatch) {
		return ""
	}
	c := r.Combination
	switch used[len(used)-1] {
	case TierRelaxedMatch:
		if r.relaxedGradesOnly() {
			return fmt.Sprintf("Excellent work! You've mastered Grade %d questions. Here are some questions from nearby grades to expand your knowledge.", c.Grade)
		}
		adj := make([]string, 0, 2)
		for _, d := range c.Difficulty.Adjacent() {
			adj = append(adj, string(d))
		}
		return fmt.Sprintf("Great progress! You've completed all %s questions. We've included some %s questions to keep you challenged.", c.Difficulty, strings.Join(adj, " and "))
	case TierCrossSubject:
		return fmt.Sprintf("Amazing! You've completed all %s questions. We've added some related subject questions to broaden your learning.", c.Subject)
	case TierTemplateGenerate, TierEmergencySynthesis:
		return "Outstanding progress! You've completed all available questions. We've created some new practice questions just for you."
	default:
		return "Keep up the great work! Here are some additional questions to continue your learning journey."
	}
}

// relaxedGradesOnly reports whether every relaxed record came from another
// grade at the requested difficulty.
func (r *Result) relaxedGradesOnly() bool {
	found := false
	for _, q := range r.Questions {
		if q.Provenance.Tier != string(TierRelaxedMatch) {
			continue
		}
		found = true
		if q.Grade == r.Combination.Grade {
			return false
		}
	}
	return found
}

// CriticalSupplyError reports that every tier was exhausted with fewer than
// the minimum acceptable number of questions. No index entries are kept for
// a failed call.
type CriticalSupplyError struct {
	Combination Combination
	Accepted    int
	Minimum     int
	Desired     int
	Exhausted   []TierExhaustion

	// Rejected counts filtered candidates by reason.
	Rejected map[string]int
}

func (e *CriticalSupplyError) Error() string {
	return fmt.Sprintf("critical supply failure for %s: %d of %d questions available, minimum %d",
		e.Combination, e.Accepted, e.Desired, e.Minimum)
}

// Details lists the tier exhaustion messages in tier order, followed by the
// filtered candidate counts when there were any.
func (e *CriticalSupplyError) Details() []string {
	ex := append([]TierExhaustion(nil), e.Exhausted...)
	sort.SliceStable(ex, func(i, j int) bool { return ex[i].Tier.Rank() < ex[j].Tier.Rank() })
	out := make([]string, len(ex), len(ex)+1)
	for i, x := range ex {
		out[i] = x.String()
	}
	if len(e.Rejected) > 0 {
		out = append(out, "filtered candidates: "+formatRejections(e.Rejected))
	}
	return out
}

// UserMessage turns a Supply error into a sentence suitable for learners.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var crit *CriticalSupplyError
	if errors.As(err, &crit) {
		c := crit.Combination
		return fmt.Sprintf("We couldn't find enough new Grade %d %s questions at %s difficulty right now. Try a different difficulty or subject while we add more.",
			c.Grade, c.Subject, c.Difficulty)
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("That request isn't valid: %s %s.", reqErr.Field, reqErr.Message)
	}
	return "Something went wrong while preparing your questions. Please try again."
}
