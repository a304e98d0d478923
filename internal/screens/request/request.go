package request

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizsupply/internal/router"
	"github.com/abhisek/quizsupply/internal/screen"
	"github.com/abhisek/quizsupply/internal/screens/practice"
	"github.com/abhisek/quizsupply/internal/supply"
	"github.com/abhisek/quizsupply/internal/ui/components"
	"github.com/abhisek/quizsupply/internal/ui/layout"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

const (
	fieldGrade = iota
	fieldSubject
	fieldDifficulty
	fieldCount
)

// suppliedMsg carries the outcome of a supply call started by the form.
type suppliedMsg struct {
	result *supply.Result
	err    error
}

// RequestScreen is a form for one supply request. Submitting it runs the
// supplier and opens a practice screen over the result.
type RequestScreen struct {
	ctx      context.Context
	supplier supply.Supplier
	fields   []components.Field
	focus    int
	loading  bool
	err      string
	details  []string
}

var _ screen.Screen = (*RequestScreen)(nil)
var _ screen.KeyHintProvider = (*RequestScreen)(nil)

// New creates a RequestScreen pre-filled from initial.
func New(ctx context.Context, supplier supply.Supplier, initial supply.RawRequest) *RequestScreen {
	count := ""
	if initial.DesiredCount > 0 {
		count = strconv.Itoa(initial.DesiredCount)
	}
	s := &RequestScreen{
		ctx:      ctx,
		supplier: supplier,
		fields: []components.Field{
			components.NewField("Grade", "1-12", initial.Grade, 2),
			components.NewField("Subject", "Math, Reading, ...", initial.Subject, 32),
			components.NewField("Difficulty", "easy, medium or hard", initial.Difficulty, 8),
			components.NewField("Questions", "5-50", count, 2),
		},
	}
	return s
}

func (s *RequestScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *RequestScreen) Title() string {
	return "New Request"
}

func (s *RequestScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Supply"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Raw returns the form contents as a RawRequest.
func (s *RequestScreen) Raw() (supply.RawRequest, error) {
	raw := supply.RawRequest{
		Grade:      strings.TrimSpace(s.fields[fieldGrade].Value()),
		Subject:    strings.TrimSpace(s.fields[fieldSubject].Value()),
		Difficulty: strings.TrimSpace(s.fields[fieldDifficulty].Value()),
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.fields[fieldCount].Value()))
	if err != nil {
		return raw, &supply.RequestError{Field: "desiredCount", Message: "must be a number", Err: err}
	}
	raw.DesiredCount = n
	return raw, nil
}

func (s *RequestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suppliedMsg:
		s.loading = false
		if msg.err != nil {
			s.setError(msg.err)
			return s, nil
		}
		return s, router.Push(practice.New(msg.result))

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *RequestScreen) moveFocus(delta int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].Focus()
}

func (s *RequestScreen) setError(err error) {
	s.err = supply.UserMessage(err)
	s.details = nil
	var crit *supply.CriticalSupplyError
	if errors.As(err, &crit) {
		s.details = crit.Details()
	}
}

func (s *RequestScreen) submit() tea.Cmd {
	s.err, s.details = "", nil
	raw, err := s.Raw()
	if err == nil {
		var req supply.Request
		if req, err = supply.ParseRequest(raw); err == nil {
			s.loading = true
			ctx, supplier := s.ctx, s.supplier
			return func() tea.Msg {
				res, err := supplier.Supply(ctx, req)
				return suppliedMsg{result: res, err: err}
			}
		}
	}
	s.setError(err)
	return nil
}

func (s *RequestScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("What should we practice?"))
	b.WriteString("\n\n")
	for _, f := range s.fields {
		b.WriteString(f.View(12))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("Preparing questions..."))
	case s.err != "":
		b.WriteString(theme.Incorrect.Width(60).Render(s.err))
		for _, d := range s.details {
			b.WriteString("\n" + theme.Label.Render("  "+d))
		}
	default:
		b.WriteString(theme.Hint.Render("Press Enter to get a question set."))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(b.String()))
}
