package supply

import "fmt"

// Tier is one sourcing strategy in the fallback sequence.
type Tier string

const (
	TierExactMatch         Tier = "EXACT_MATCH"
	TierRelaxedMatch       Tier = "RELAXED_MATCH"
	TierTemplateGenerate   Tier = "TEMPLATE_GENERATE"
	TierCrossSubject       Tier = "CROSS_SUBJECT"
	TierEmergencySynthesis Tier = "EMERGENCY_SYNTHESIS"
)

// AllTiers lists the tiers in the order they are tried.
var AllTiers = []Tier{
	TierExactMatch,
	TierRelaxedMatch,
	TierTemplateGenerate,
	TierCrossSubject,
	TierEmergencySynthesis,
}

// Rank returns the tier's position in AllTiers, or len(AllTiers) if unknown.
func (t Tier) Rank() int {
	for i, v := range AllTiers {
		if v == t {
			return i
		}
	}
	return len(AllTiers)
}

// TierExhaustion records a tier whose candidate pool ran out before the
// request was filled. It is reported as a warning, never returned as an
// error.
type TierExhaustion struct {
	Tier        Tier
	Contributed int
	Attempts    int // generator calls made; zero for corpus tiers
	Failures    int // generator calls that produced nothing
}

func (e TierExhaustion) String() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("tier %s exhausted after %d attempts (%d failed verification), contributed %d",
			e.Tier, e.Attempts, e.Failures, e.Contributed)
	}
	return fmt.Sprintf("tier %s exhausted, contributed %d", e.Tier, e.Contributed)
}
