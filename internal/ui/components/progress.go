package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashquiz/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a fraction in [0, 1].
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
	}
}

// Filled returns how many cells of a barWidth-wide bar are filled.
func (p ProgressBar) Filled(barWidth int) int {
	filled := int(float64(barWidth) * p.Percent)
	return max(0, min(filled, barWidth))
}

// View renders the progress bar with a trailing percentage.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	const percentWidth = 6 // "  100%"
	barWidth := max(p.Width-lipgloss.Width(result)-percentWidth, 4)

	filled := p.Filled(barWidth)
	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	result += theme.Status.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	return result
}
