package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Card frames a block of content.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// tierColors distinguishes where a question came from. Corpus tiers are
// cool, synthesized tiers warm.
var tierColors = map[string]lipgloss.Style{
	"EXACT_MATCH":         lipgloss.NewStyle().Foreground(Success),
	"RELAXED_MATCH":       lipgloss.NewStyle().Foreground(Secondary),
	"TEMPLATE_GENERATE":   lipgloss.NewStyle().Foreground(Primary),
	"CROSS_SUBJECT":       lipgloss.NewStyle().Foreground(TextDim),
	"EMERGENCY_SYNTHESIS": lipgloss.NewStyle().Foreground(Accent),
}

// Tier renders a tier name in its color.
func Tier(name string) string {
	if s, ok := tierColors[name]; ok {
		return s.Render(name)
	}
	return Body.Render(name)
}
