package validation

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

const (
	minOptions = 2
	maxOptions = 6
)

// OptionsValidator checks the option list and that the correct answer is
// one of the options.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(r *question.Record) *ValidationError {
	if len(r.Options) < minOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("need at least %d options, got %d", minOptions, len(r.Options)),
			Retryable: true,
		}
	}
	if len(r.Options) > maxOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("at most %d options allowed, got %d", maxOptions, len(r.Options)),
			Retryable: true,
		}
	}

	seen := make(map[string]bool, len(r.Options))
	for i, o := range r.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i+1),
				Retryable: true,
			}
		}
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %q appears more than once", o),
				Retryable: true,
			}
		}
		seen[key] = true
	}

	if r.CorrectIndex() < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer %q is not one of the options", r.CorrectAnswer),
			Retryable: true,
		}
	}
	return nil
}
