package question

import (
	"strconv"
	"strings"
)

// CheckAnswer compares a learner's response with the record's correct answer.
//
// Accepted forms:
// - the option text, case-insensitive and trimmed
// - a 1-based option number ("2")
// - an option letter ("b"), as shown by the preview screen
func CheckAnswer(response string, r Record) bool {
	response = strings.TrimSpace(response)
	if response == "" {
		return false
	}

	if idx, ok := optionIndex(response, len(r.Options)); ok {
		return strings.EqualFold(
			strings.TrimSpace(r.Options[idx]),
			strings.TrimSpace(r.CorrectAnswer),
		)
	}

	return strings.EqualFold(response, strings.TrimSpace(r.CorrectAnswer))
}

// OptionLabel returns the display letter for option i ("A" for 0).
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// optionIndex resolves a number or single letter to a 0-based option index.
func optionIndex(s string, n int) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		if v >= 1 && v <= n {
			return v - 1, true
		}
		return 0, false
	}
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < n {
			return int(c - 'a'), true
		}
	}
	return 0, false
}
