package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/router"
	"github.com/abhisek/quizsupply/internal/supply"
)

func testResult() *supply.Result {
	return &supply.Result{
		Combination: supply.Combination{Grade: 2, Subject: question.SubjectReading, Difficulty: question.DifficultyEasy},
		Questions: []question.Record{{
			Content:       "Which word rhymes with cat?",
			Options:       []string{"hat", "dog", "sun"},
			CorrectAnswer: "hat",
			Subject:       question.SubjectReading,
			Topic:         "rhyming",
		}},
	}
}

func TestAppModel_StartsOnForm(t *testing.T) {
	m := newAppModel(context.Background(), Options{})
	if m.router.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", m.router.Depth())
	}
	if m.router.Active().Title() != "New Request" {
		t.Errorf("active = %q", m.router.Active().Title())
	}
}

func TestAppModel_StartsInPracticeWithResult(t *testing.T) {
	m := newAppModel(context.Background(), Options{Result: testResult()})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	if !strings.Contains(m.router.Active().Title(), "Grade 2 Reading") {
		t.Errorf("active = %q", m.router.Active().Title())
	}
}

func TestAppModel_EscPops(t *testing.T) {
	m := newAppModel(context.Background(), Options{Result: testResult()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Esc should pop")
	}

	m = newAppModel(context.Background(), Options{})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("Esc on the form should do nothing")
	}
}

func TestAppModel_Frame(t *testing.T) {
	m := newAppModel(context.Background(), Options{Result: testResult()})
	if f := m.frame(); f != "" {
		t.Errorf("expected empty frame before the first resize, got %q", f)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)
	f := m.frame()
	for _, want := range []string{"quizsupply", "Which word rhymes with cat?", "0/0", "Submit"} {
		if !strings.Contains(f, want) {
			t.Errorf("frame missing %q", want)
		}
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = updated.(AppModel)
	if !strings.Contains(m.frame(), "Terminal too small") {
		t.Error("expected min size message")
	}
}
