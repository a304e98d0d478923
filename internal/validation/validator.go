// Package validation decides whether a single question record may be shown
// to a learner.
package validation

import (
	"fmt"

	"github.com/abhisek/quizsupply/internal/question"
)

// Validator checks one property of a question record.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, used in error
	// messages and recorded events, e.g. "structural", "placeholder".
	Name() string

	// Validate returns nil if the record passes the check.
	Validate(r *question.Record) *ValidationError
}

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regenerating the record is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Config holds the ordered validator chain.
type Config struct {
	// Validators run in order; the first failure stops the chain.
	Validators []Validator
}

// DefaultConfig returns the standard chain. The structural, options and
// placeholder checks are mandatory for every record regardless of source.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
			&PlaceholderValidator{},
			&MathCheckValidator{},
		},
	}
}

// ContentValidator runs a validator chain over records. It has no side
// effects and may be shared between goroutines.
type ContentValidator struct {
	validators []Validator
}

// New creates a ContentValidator from cfg. An empty chain falls back to
// DefaultConfig so a zero Config can never accept everything.
func New(cfg Config) *ContentValidator {
	vs := cfg.Validators
	if len(vs) == 0 {
		vs = DefaultConfig().Validators
	}
	return &ContentValidator{validators: append([]Validator(nil), vs...)}
}

// Default returns a ContentValidator using DefaultConfig.
func Default() *ContentValidator {
	return New(DefaultConfig())
}

// Validate returns nil when r is accepted, or the first rejection reason.
func (c *ContentValidator) Validate(r *question.Record) *ValidationError {
	if r == nil {
		return &ValidationError{Validator: "structural", Message: "record is nil", Retryable: true}
	}
	for _, v := range c.validators {
		if err := v.Validate(r); err != nil {
			return err
		}
	}
	return nil
}

// Names lists the validators in chain order.
func (c *ContentValidator) Names() []string {
	names := make([]string, len(c.validators))
	for i, v := range c.validators {
		names[i] = v.Name()
	}
	return names
}
