package quiz

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/router"
	"github.com/abhisek/flashquiz/internal/screen"
	"github.com/abhisek/flashquiz/internal/screens/confirm"
	sess "github.com/abhisek/flashquiz/internal/session"
	"github.com/abhisek/flashquiz/internal/ui/components"
	"github.com/abhisek/flashquiz/internal/ui/layout"
)

// QuizScreen presents the session's current question and grades answers.
// Feedback for an answer is shown above the question that follows it.
type QuizScreen struct {
	session  *sess.Session
	logger   *zap.Logger
	choice   components.MultiChoice
	feedback feedback
	notice   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen over a started session. notice, when set, is
// shown once above the first question (e.g. a corrupt progress warning).
func New(s *sess.Session, logger *zap.Logger, notice string) *QuizScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &QuizScreen{session: s, logger: logger, notice: notice}
	q.syncChoice()
	return q
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	if q.session.State() == sess.StateExhausted {
		return hints(keys.Reset, keys.Quit)
	}
	return hints(keys.Up, keys.Answer, keys.Submit, keys.Skip, keys.Reset, keys.Quit)
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ResetRequestedMsg:
		return q.reset()
	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return q, tea.Quit
	case key.Matches(msg, keys.Reset):
		return q, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: confirm.New("Reset", "Reset all saved progress?", ResetRequestedMsg{}),
			}
		}
	}

	if q.session.State() == sess.StateExhausted {
		return q, nil
	}

	switch {
	case key.Matches(msg, keys.Submit):
		return q.submit(q.choice.SelectedLabel())
	case key.Matches(msg, keys.Skip):
		q.session.Skip()
		q.feedback = feedback{kind: feedbackSkipped}
		q.syncChoice()
		return q, nil
	}

	// A single letter naming an option answers directly.
	if k := msg.String(); len(k) == 1 && q.choice.Select(strings.ToUpper(k)) {
		return q.submit(q.choice.SelectedLabel())
	}

	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	return q, cmd
}

// submit grades label. Save failures keep the question on screen.
func (q *QuizScreen) submit(label string) (screen.Screen, tea.Cmd) {
	q.notice = ""
	res, err := q.session.Submit(context.Background(), label)
	if err != nil {
		if errors.Is(err, sess.ErrInvalidSelection) {
			return q, nil
		}
		q.logger.Error("submit failed", zap.Error(err))
		q.feedback = feedback{kind: feedbackError, err: err}
		return q, nil
	}

	switch res.Kind {
	case sess.Correct:
		q.feedback = feedback{kind: feedbackCorrect}
	case sess.Incorrect:
		text, _ := res.Question.Options.Get(res.CorrectLabel)
		q.feedback = feedback{kind: feedbackIncorrect, correctLabel: res.CorrectLabel, correctText: text}
	default:
		q.feedback = feedback{}
	}
	q.syncChoice()
	return q, nil
}

func (q *QuizScreen) reset() (screen.Screen, tea.Cmd) {
	q.notice = ""
	if err := q.session.ResetAll(context.Background()); err != nil {
		q.logger.Error("reset failed", zap.Error(err))
		q.feedback = feedback{kind: feedbackError, err: err}
		return q, nil
	}
	q.feedback = feedback{kind: feedbackReset}
	q.syncChoice()
	return q, nil
}

// syncChoice rebuilds the option selector for the current question.
func (q *QuizScreen) syncChoice() {
	q.choice = components.NewMultiChoice(q.session.Current())
}
