package supply

import (
	"fmt"
	"math"

	"github.com/abhisek/quizsupply/internal/dedup"
	"github.com/abhisek/quizsupply/internal/templates"
	"github.com/abhisek/quizsupply/internal/validation"
)

// Config controls a Pipeline.
type Config struct {
	// Validator is applied to every candidate from every tier.
	Validator *validation.ContentValidator

	// Registry provides the subject and emergency generators.
	Registry *templates.Registry

	// Journal, when set, persists every claimed signature pair.
	Journal dedup.Journal

	// MinAcceptableFraction of DesiredCount below which a call fails
	// with CriticalSupplyError.
	MinAcceptableFraction float64

	// TemplateBudgetFactor bounds TEMPLATE_GENERATE to
	// DesiredCount × factor generator calls.
	TemplateBudgetFactor int

	// EmergencyBudgetFactor bounds each EMERGENCY_SYNTHESIS pass the same way.
	EmergencyBudgetFactor int

	// RelaxGrades lets RELAXED_MATCH draw from adjacent grades after
	// adjacent difficulties. Off by default, which keeps the tier to the
	// requested grade.
	RelaxGrades bool

	// Overshoot is how many spare candidates to gather beyond the number
	// still needed, to cover claims lost to concurrent calls.
	Overshoot int
}

// DefaultConfig returns the standard validator chain, the template
// registry and recommended budgets.
func DefaultConfig() Config {
	return Config{
		Validator:             validation.Default(),
		Registry:              templates.DefaultRegistry(),
		MinAcceptableFraction: 0.5,
		TemplateBudgetFactor:  5,
		EmergencyBudgetFactor: 5,
		RelaxGrades:           false,
		Overshoot:             2,
	}
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if c.MinAcceptableFraction <= 0 || c.MinAcceptableFraction > 1 {
		return fmt.Errorf("min acceptable fraction must be in (0, 1], got %v", c.MinAcceptableFraction)
	}
	if c.TemplateBudgetFactor < 1 {
		return fmt.Errorf("template budget factor must be at least 1, got %d", c.TemplateBudgetFactor)
	}
	if c.EmergencyBudgetFactor < 1 {
		return fmt.Errorf("emergency budget factor must be at least 1, got %d", c.EmergencyBudgetFactor)
	}
	if c.Overshoot < 0 {
		return fmt.Errorf("overshoot must not be negative, got %d", c.Overshoot)
	}
	return nil
}

// MinimumAcceptable returns ceil(desired × MinAcceptableFraction), at least 1.
func (c Config) MinimumAcceptable(desired int) int {
	n := int(math.Ceil(float64(desired) * c.MinAcceptableFraction))
	return max(n, 1)
}
