package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/quizsupply/internal/question"
)

// Patterns for scaffolding text that earlier generators leaked into
// published content. All matching is case-insensitive.
var (
	// Whole-option labels such as "Option A", "Option A8", "Choice 3",
	// "Wrong Answer 2" or a bare "Answer".
	placeholderOptionRe = regexp.MustCompile(
		`(?i)^(?:option|choice|answer|wrong answer|incorrect answer|correct answer|distractor|alternative)(?:\s*[a-z]?\s*\d+|\s+[a-z])?$`)

	// Markers that are never legitimate anywhere in an option.
	placeholderMarkerRe = regexp.MustCompile(
		`(?i)lorem ipsum|\bsample (?:text|answer|option)\b|\bplaceholder\b|\binsert .{0,20}here\b|\{\{.*\}\}|^(?:tbd|todo|n/?a|xxx+|\?+|\.\.\.)$`)

	// Prompts produced by filler scripts, e.g. "Practice question 3 for
	// grade 5 math" or "Question 12 about reading".
	placeholderContentRe = regexp.MustCompile(
		`(?i)\bpractice question \d+ for grade\b|^question \d+ (?:for|about)\b|\bsample question\b|lorem ipsum|\binsert (?:question|text|content) here\b|\[placeholder\]|\{\{.*\}\}|^(?:tbd|todo)\b`)
)

// PlaceholderValidator rejects records whose options or prompt still contain
// generation scaffolding.
type PlaceholderValidator struct{}

func (v *PlaceholderValidator) Name() string { return "placeholder" }

func (v *PlaceholderValidator) Validate(r *question.Record) *ValidationError {
	if placeholderContentRe.MatchString(strings.TrimSpace(r.Content)) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "content looks like placeholder text",
			Retryable: true,
		}
	}
	for i, o := range r.Options {
		if IsPlaceholderOption(o) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d %q is a placeholder", i+1, o),
				Retryable: true,
			}
		}
	}
	return nil
}

// IsPlaceholderOption reports whether s is empty or generic scaffolding
// rather than a real answer choice.
func IsPlaceholderOption(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return placeholderOptionRe.MatchString(s) || placeholderMarkerRe.MatchString(s)
}
