package validation

import (
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

const (
	maxContentLen     = 1000
	maxExplanationLen = 2000
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(r *question.Record) *ValidationError {
	if strings.TrimSpace(r.Content) == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "content is empty",
			Retryable: true,
		}
	}
	if len(r.Content) > maxContentLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "content exceeds 1000 characters",
			Retryable: true,
		}
	}
	if len(r.Explanation) > maxExplanationLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation exceeds 2000 characters",
			Retryable: true,
		}
	}
	if r.Type != question.TypeMultipleChoice {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "type must be \"multiple_choice\"",
		}
	}
	if !r.Subject.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "subject " + string(r.Subject) + " is not a known subject",
		}
	}
	if !r.Grade.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "grade must be between 1 and 12",
		}
	}
	if !r.Difficulty.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "difficulty must be \"easy\", \"medium\", or \"hard\"",
		}
	}
	return nil
}
