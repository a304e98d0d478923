package templates

import (
	"testing"

	"github.com/abhisek/quizsupply/internal/question"
)

func TestDefaultRegistry_CoversEverySubject(t *testing.T) {
	r := DefaultRegistry()
	for _, s := range question.AllSubjects {
		g, ok := r.For(s)
		if !ok {
			t.Errorf("no generator for %s", s)
			continue
		}
		if g.Subject() != s {
			t.Errorf("generator for %s reports subject %s", s, g.Subject())
		}
	}
	if r.Emergency() == nil {
		t.Fatal("expected an emergency generator")
	}
}

type stubGenerator struct{ subject question.Subject }

func (s *stubGenerator) Name() string              { return "stub" }
func (s *stubGenerator) Subject() question.Subject { return s.subject }
func (s *stubGenerator) Generate(question.Grade, question.Difficulty, uint64) (*question.Record, error) {
	return nil, nil
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := DefaultRegistry()
	if err := r.Register(&stubGenerator{subject: question.SubjectReading}); err != nil {
		t.Fatal(err)
	}
	g, _ := r.For(question.SubjectReading)
	if g.Name() != "stub" {
		t.Errorf("got %q, want stub", g.Name())
	}
	if err := r.Register(&stubGenerator{subject: "Science"}); err == nil {
		t.Error("expected error for unknown subject")
	}
}

func TestRegistry_SetEmergency(t *testing.T) {
	r := NewRegistry(nil)
	if r.Emergency() != nil {
		t.Fatal("expected no emergency generator")
	}
	r.SetEmergency(&EmergencyGenerator{})
	if r.Emergency() == nil {
		t.Fatal("expected emergency generator after SetEmergency")
	}
	if _, ok := r.For(question.SubjectMath); ok {
		t.Error("empty registry should not have a math generator")
	}
}
