package confirm

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashquiz/internal/router"
	"github.com/abhisek/flashquiz/internal/screen"
	"github.com/abhisek/flashquiz/internal/ui/layout"
	"github.com/abhisek/flashquiz/internal/ui/theme"
)

// ConfirmScreen is a yes/no dialog. On yes it pops itself and delivers
// onYes to the screen underneath; on no it just pops.
type ConfirmScreen struct {
	title  string
	prompt string
	onYes  tea.Msg
}

var _ screen.Screen = (*ConfirmScreen)(nil)
var _ screen.KeyHintProvider = (*ConfirmScreen)(nil)

// New creates a dialog asking prompt.
func New(title, prompt string, onYes tea.Msg) *ConfirmScreen {
	return &ConfirmScreen{title: title, prompt: prompt, onYes: onYes}
}

func (c *ConfirmScreen) Init() tea.Cmd {
	return nil
}

func (c *ConfirmScreen) Title() string {
	return c.title
}

func (c *ConfirmScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Y", Description: "Yes"},
		{Key: "N", Description: "No"},
	}
}

func (c *ConfirmScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "y", "Y":
		return c, func() tea.Msg { return router.PopScreenMsg{Result: c.onYes} }
	case "n", "N", "esc", "q":
		return c, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return c, nil
}

func (c *ConfirmScreen) View(width, height int) string {
	box := theme.Card.Render(
		theme.Warning.Bold(true).Render(c.prompt) + "\n\n" +
			theme.Hint.Render("Press Y to confirm, N to cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
