package question

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		in   string
		want Subject
	}{
		{"Math", SubjectMath},
		{"  mathematics ", SubjectMath},
		{"numeracy", SubjectMath},
		{"Mathematical Reasoning", SubjectMathematicalReasoning},
		{"mathematical_reasoning", SubjectMathematicalReasoning},
		{"Thinking Skills", SubjectThinkingSkills},
		{"thinking-skills", SubjectThinkingSkills},
		{"English", SubjectEnglish},
		{"language", SubjectEnglish},
		{"READING", SubjectReading},
	}
	for _, tt := range tests {
		got, err := ParseSubject(tt.in)
		if err != nil {
			t.Errorf("ParseSubject(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSubject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSubject_NoSubstringMatching(t *testing.T) {
	// "reasoning" alone must not silently become either reasoning subject.
	for _, in := range []string{"reasoning", "math thinking", "science", "", "thinking skills math"} {
		_, err := ParseSubject(in)
		var ue *UnknownSubjectError
		if !errors.As(err, &ue) {
			t.Errorf("ParseSubject(%q): expected UnknownSubjectError, got %v", in, err)
			continue
		}
		if ue.Label != in {
			t.Errorf("label = %q, want %q", ue.Label, in)
		}
	}
}

func TestSubject_JSONRoundTripStrict(t *testing.T) {
	var s Subject
	if err := json.Unmarshal([]byte(`"maths"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != SubjectMath {
		t.Errorf("got %q, want %q", s, SubjectMath)
	}
	if err := json.Unmarshal([]byte(`"history"`), &s); err == nil {
		t.Error("expected error for unknown subject")
	}
}

func TestFallbackSubjects(t *testing.T) {
	for _, s := range AllSubjects {
		fb := s.FallbackSubjects()
		if len(fb) != len(AllSubjects)-1 {
			t.Errorf("%s: got %d fallbacks, want %d", s, len(fb), len(AllSubjects)-1)
		}
		for _, f := range fb {
			if f == s {
				t.Errorf("%s lists itself as a fallback", s)
			}
		}
	}
	if got := SubjectMath.FallbackSubjects()[0]; got != SubjectMathematicalReasoning {
		t.Errorf("closest fallback for Math = %q, want %q", got, SubjectMathematicalReasoning)
	}
	if got := SubjectReading.FallbackSubjects()[0]; got != SubjectEnglish {
		t.Errorf("closest fallback for Reading = %q, want %q", got, SubjectEnglish)
	}
}

func TestSubjectSlug(t *testing.T) {
	if got := SubjectThinkingSkills.Slug(); got != "thinking_skills" {
		t.Errorf("got %q", got)
	}
}
