package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizsupply/internal/router"
	"github.com/abhisek/quizsupply/internal/screen"
	"github.com/abhisek/quizsupply/internal/screens/summary"
	"github.com/abhisek/quizsupply/internal/supply"
	"github.com/abhisek/quizsupply/internal/ui/components"
	"github.com/abhisek/quizsupply/internal/ui/layout"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

// PracticeScreen walks through a supplied question set one question at a
// time. When the last question is answered it is replaced by the summary.
type PracticeScreen struct {
	result  *supply.Result
	index   int
	current components.MultiChoice
	answers []summary.Answer
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen over result.
func New(result *supply.Result) *PracticeScreen {
	s := &PracticeScreen{result: result}
	if len(result.Questions) > 0 {
		s.current = components.NewMultiChoice(result.Questions[0])
	}
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (s *PracticeScreen) Title() string {
	c := s.result.Combination
	return fmt.Sprintf("Grade %d %s · %s", c.Grade, c.Subject, c.Difficulty)
}

func (s *PracticeScreen) Status() string {
	return fmt.Sprintf("%d/%d", s.Correct(), len(s.answers))
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.current.Submitted {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "A-F", Description: "Answer"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

// Correct returns the number of correct answers so far.
func (s *PracticeScreen) Correct() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Answers returns the answers recorded so far.
func (s *PracticeScreen) Answers() []summary.Answer {
	return s.answers
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if len(s.result.Questions) == 0 {
		if kmsg.String() == "enter" {
			return s, router.Pop
		}
		return s, nil
	}

	if !s.current.Submitted {
		var cmd tea.Cmd
		s.current, cmd = s.current.Update(msg)
		if s.current.Submitted {
			s.answers = append(s.answers, summary.Answer{
				Record:   s.current.Record,
				Response: s.current.Response,
				Correct:  s.current.IsCorrect(),
			})
		}
		return s, cmd
	}

	switch kmsg.String() {
	case "enter", "space", " ":
		s.index++
		if s.index >= len(s.result.Questions) {
			return s, router.Replace(summary.New(s.result, s.answers))
		}
		s.current = components.NewMultiChoice(s.result.Questions[s.index])
	}
	return s, nil
}

func (s *PracticeScreen) View(width, height int) string {
	if len(s.result.Questions) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("No questions were supplied. Press Enter to go back."))
	}

	cw := min(max(width-6, 20), 72)
	var b strings.Builder

	done := s.index
	if s.current.Submitted {
		done++
	}
	b.WriteString(components.NewProgressBar(done, len(s.result.Questions), cw).View())
	b.WriteString("\n\n")

	rec := s.current.Record
	meta := theme.Label.Render(fmt.Sprintf("%s · %s · ", rec.Subject, rec.Topic)) + theme.Tier(rec.Provenance.Tier)
	b.WriteString(meta)
	b.WriteString("\n\n")
	b.WriteString(s.current.View(cw))

	if s.current.Submitted {
		b.WriteString("\n")
		if s.current.IsCorrect() {
			b.WriteString(theme.Correct.Render("✓ Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("✗ Not quite.") + theme.Body.Render(" Answer: "+rec.CorrectAnswer))
		}
		if rec.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Width(cw).Render(rec.Explanation))
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(b.String()))
}
