package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizsupply/internal/ui/theme"
)

// Field is a labeled single-line input.
type Field struct {
	Label string
	Model textinput.Model
}

// NewField creates a field with an initial value.
func NewField(label, placeholder, value string, limit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	if limit > 0 {
		ti.CharLimit = limit
	}
	return Field{Label: label, Model: ti}
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Update forwards msg to the underlying input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// Value returns the current text.
func (f Field) Value() string {
	return f.Model.Value()
}

// View renders "label  input", highlighting the label when focused.
func (f Field) View(labelWidth int) string {
	style := theme.Label
	if f.Model.Focused() {
		style = theme.Selected
	}
	return style.Width(labelWidth).Render(f.Label) + f.Model.View()
}
