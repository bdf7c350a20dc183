package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/flashquiz/internal/session"
	"github.com/abhisek/flashquiz/internal/ui/components"
	"github.com/abhisek/flashquiz/internal/ui/theme"
)

const doneMessage = "All questions answered correctly!"

func (q *QuizScreen) View(width, height int) string {
	var b strings.Builder

	if q.notice != "" {
		b.WriteString(theme.Warning.Render("  " + q.notice))
		b.WriteString("\n\n")
	}

	if line := q.renderFeedback(); line != "" {
		b.WriteString("  " + line)
		b.WriteString("\n\n")
	}

	if q.session.State() == sess.StateExhausted {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render(doneMessage))
		b.WriteString("\n\n")
	} else {
		card := theme.Card.Width(min(width-4, 90)).Render(q.choice.View(min(width-8, 86)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n\n")
	}

	b.WriteString(q.renderStatus(width))
	return b.String()
}

func (q *QuizScreen) renderFeedback() string {
	f := q.feedback
	switch f.kind {
	case feedbackCorrect:
		return theme.Correct.Render("Correct!")
	case feedbackIncorrect:
		msg := fmt.Sprintf("Incorrect. Correct answer: %s", f.correctLabel)
		if f.correctText != "" {
			msg += ") " + f.correctText
		}
		return theme.Incorrect.Render(msg)
	case feedbackSkipped:
		return theme.Hint.Render("Skipped, it will come back later.")
	case feedbackReset:
		return theme.Warning.Render("Progress reset. Starting over.")
	case feedbackError:
		return theme.Incorrect.Render("Error: " + f.err.Error())
	}
	return ""
}

// renderStatus renders the remaining/saved counters and the progress bar.
func (q *QuizScreen) renderStatus(width int) string {
	sum := q.session.Summary()
	status := theme.Status.Render(fmt.Sprintf("  Remaining: %d | Correct saved: %d", sum.Remaining, sum.Correct))
	bar := components.NewProgressBar("  Progress", sum.Percent(), min(width-4, 60)).View()
	return status + "\n" + bar
}
