package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

// MultiChoice asks one question. The learner moves with arrows or j/k and
// answers with enter, or jumps straight to an option by letter or number.
type MultiChoice struct {
	Record    question.Record
	Selected  int
	Submitted bool

	// Response is what the learner chose, as passed to question.CheckAnswer.
	Response string
}

// NewMultiChoice creates a selector for r.
func NewMultiChoice(r question.Record) MultiChoice {
	return MultiChoice{Record: r}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Record.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		m.submit(question.OptionLabel(m.Selected))
		return m, nil
	}

	if len(key) == 1 {
		for i := range m.Record.Options {
			if strings.EqualFold(key, question.OptionLabel(i)) || key == fmt.Sprint(i+1) {
				m.Selected = i
				m.submit(key)
				break
			}
		}
	}
	return m, nil
}

func (m *MultiChoice) submit(response string) {
	m.Submitted = true
	m.Response = response
}

// IsCorrect reports whether the submitted response is the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && question.CheckAnswer(m.Response, m.Record)
}

// View renders the prompt and options, wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Record.Content))
	b.WriteString("\n\n")

	correct := m.Record.CorrectIndex()
	for i, opt := range m.Record.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, question.OptionLabel(i), opt)

		switch {
		case m.Submitted && i == correct:
			line = theme.Correct.Render(line)
		case m.Submitted && i == m.Selected:
			line = theme.Incorrect.Render(line)
		case m.Submitted:
			line = theme.Label.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
