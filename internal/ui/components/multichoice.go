package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashquiz/internal/question"
	"github.com/abhisek/flashquiz/internal/ui/theme"
)

// MultiChoice renders a question's labeled options and tracks the
// highlighted one. Grading is left to the caller.
type MultiChoice struct {
	Prompt   string
	Options  question.Options
	Selected int
}

// NewMultiChoice creates a selector for q with the first option highlighted.
func NewMultiChoice(q *question.Record) MultiChoice {
	if q == nil {
		return MultiChoice{}
	}
	return MultiChoice{
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// Update handles arrow and vi-style navigation.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// Select highlights the option with label. It reports whether the label
// exists.
func (m *MultiChoice) Select(label string) bool {
	i := m.Options.IndexOf(strings.ToUpper(label))
	if i < 0 {
		return false
	}
	m.Selected = i
	return true
}

// SelectedLabel returns the highlighted option's label, or "" when there are
// no options.
func (m MultiChoice) SelectedLabel() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected].Label
}

// View renders the prompt followed by one line per option.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	prompt := theme.Prompt
	if width > 8 {
		prompt = prompt.Width(width - 4)
	}
	b.WriteString(prompt.Render(m.Prompt))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		style := theme.Unselected
		if i == m.Selected {
			prefix = "> "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s)  %s", prefix, opt.Label, opt.Text)))
		b.WriteString("\n")
	}
	return b.String()
}
