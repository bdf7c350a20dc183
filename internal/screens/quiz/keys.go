package quiz

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/flashquiz/internal/ui/layout"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Answer key.Binding
	Submit key.Binding
	Skip   key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "Up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "Down"),
	),
	// Answer is only used for its help text; option letters are matched
	// against the current question's labels.
	Answer: key.NewBinding(
		key.WithHelp("A-D", "Answer"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Submit"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s", "n"),
		key.WithHelp("S", "Skip"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r", "R"),
		key.WithHelp("R", "Reset"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("Q", "Quit"),
	),
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
