package question

import (
	"fmt"
	"strings"
)

// Subject is the closed set of subjects the engine can supply.
type Subject string

const (
	SubjectMath                  Subject = "Math"
	SubjectMathematicalReasoning Subject = "Mathematical Reasoning"
	SubjectThinkingSkills        Subject = "Thinking Skills"
	SubjectEnglish               Subject = "English"
	SubjectReading               Subject = "Reading"
)

// AllSubjects lists every subject in a stable order.
var AllSubjects = []Subject{
	SubjectMath,
	SubjectMathematicalReasoning,
	SubjectThinkingSkills,
	SubjectEnglish,
	SubjectReading,
}

// subjectAliases maps a normalized label to its subject. Lookup is by exact
// key only: "thinking skills" never matches "mathematical reasoning" by
// substring.
var subjectAliases = map[string]Subject{
	"math":                   SubjectMath,
	"maths":                  SubjectMath,
	"mathematics":            SubjectMath,
	"numeracy":               SubjectMath,
	"mathematical reasoning": SubjectMathematicalReasoning,
	"math reasoning":         SubjectMathematicalReasoning,
	"maths reasoning":        SubjectMathematicalReasoning,
	"numerical reasoning":    SubjectMathematicalReasoning,
	"thinking skills":        SubjectThinkingSkills,
	"thinking":               SubjectThinkingSkills,
	"critical thinking":      SubjectThinkingSkills,
	"english":                SubjectEnglish,
	"language":               SubjectEnglish,
	"language conventions":   SubjectEnglish,
	"grammar":                SubjectEnglish,
	"reading":                SubjectReading,
	"reading comprehension":  SubjectReading,
	"comprehension":          SubjectReading,
}

// UnknownSubjectError is returned when a label does not name a known subject.
type UnknownSubjectError struct {
	Label string
}

func (e *UnknownSubjectError) Error() string {
	return fmt.Sprintf("unknown subject %q", e.Label)
}

// ParseSubject normalizes a free-form subject label into a Subject.
// Case, surrounding space, underscores and hyphens are ignored.
func ParseSubject(label string) (Subject, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if s, ok := subjectAliases[key]; ok {
		return s, nil
	}
	return "", &UnknownSubjectError{Label: label}
}

// Valid reports whether s is one of AllSubjects.
func (s Subject) Valid() bool {
	for _, v := range AllSubjects {
		if s == v {
			return true
		}
	}
	return false
}

// Slug returns a lowercase, underscore separated form used in IDs and file names.
func (s Subject) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "_")
}

func (s Subject) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *Subject) UnmarshalText(b []byte) error {
	parsed, err := ParseSubject(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// relatedSubjects orders the fallback subjects for each subject, closest first.
var relatedSubjects = map[Subject][]Subject{
	SubjectMath:                  {SubjectMathematicalReasoning, SubjectThinkingSkills},
	SubjectMathematicalReasoning: {SubjectMath, SubjectThinkingSkills},
	SubjectThinkingSkills:        {SubjectMathematicalReasoning, SubjectEnglish},
	SubjectEnglish:               {SubjectReading, SubjectThinkingSkills},
	SubjectReading:               {SubjectEnglish, SubjectThinkingSkills},
}

// FallbackSubjects returns every other subject, related ones first.
func (s Subject) FallbackSubjects() []Subject {
	out := make([]Subject, 0, len(AllSubjects)-1)
	seen := map[Subject]bool{s: true}
	for _, r := range relatedSubjects[s] {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, r := range AllSubjects {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
