package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/router"
	"github.com/abhisek/quizsupply/internal/screen"
	"github.com/abhisek/quizsupply/internal/supply"
	"github.com/abhisek/quizsupply/internal/ui/components"
	"github.com/abhisek/quizsupply/internal/ui/layout"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

// Answer is one answered question from a practice run.
type Answer struct {
	Record   question.Record
	Response string
	Correct  bool
}

// SummaryScreen shows the score for a practice run and how the question set
// was sourced.
type SummaryScreen struct {
	result  *supply.Result
	answers []Answer
	menu    components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(result *supply.Result, answers []Answer) *SummaryScreen {
	return &SummaryScreen{
		result:  result,
		answers: answers,
		menu: components.NewMenu(
			components.MenuItem{Label: "New request", Key: "n", Action: func() tea.Cmd { return router.Pop }},
			components.MenuItem{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
		),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "New request"},
	}
}

// Score returns the number of correct answers.
func (s *SummaryScreen) Score() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(theme.Title.Render("Practice complete!")))
	b.WriteString("\n\n")

	total := len(s.answers)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(s.Score()) / float64(total)
	}
	b.WriteString(center(theme.Body.Render(fmt.Sprintf(
		"Questions: %d        Correct: %d        Accuracy: %.0f%%", total, s.Score(), accuracy*100))))
	b.WriteString("\n\n")

	if s.result != nil {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(max(width-8, 0), 50)))
		b.WriteString(center(theme.Label.Render("Sources")))
		b.WriteString("\n" + center(divider) + "\n")
		for _, t := range s.result.TiersUsed() {
			pad := strings.Repeat(" ", max(22-len(t), 1))
			b.WriteString(center(theme.Tier(string(t)) + pad + fmt.Sprintf("%3d", s.result.TierCounts[t])))
			b.WriteString("\n")
		}

		if notice := s.result.Notice(); notice != "" {
			b.WriteString("\n")
			b.WriteString(center(theme.Hint.Width(min(width-4, 70)).Render(notice)))
			b.WriteString("\n")
		}
		for _, w := range s.result.Warnings {
			b.WriteString(center(theme.Warning.Width(min(width-4, 70)).Render("! " + w)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center(s.menu.View()))
	return b.String()
}
