package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/router"
	"github.com/abhisek/flashquiz/internal/screen"
	"github.com/abhisek/flashquiz/internal/screens/quiz"
	"github.com/abhisek/flashquiz/internal/session"
	"github.com/abhisek/flashquiz/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Session *session.Session
	Logger  *zap.Logger

	// Notice is shown above the first question, e.g. when saved progress
	// could not be read.
	Notice string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *session.Session
	width   int
	height  int
}

// newAppModel creates a new AppModel with the quiz screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router:  router.New(quiz.New(opts.Session, opts.Logger, opts.Notice)),
		session: opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the full screen for the current terminal size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	sum := m.session.Summary()
	header := layout.RenderHeader(title, sum.Correct, sum.Total, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Session == nil {
		return fmt.Errorf("app: no session")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
