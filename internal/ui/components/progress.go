package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// ScoreBar shows correct answers out of a total as a filled bar, colored by
// how well the learner did.
type ScoreBar struct {
	Label   string
	Correct int
	Total   int
	Width   int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, correct, total, width int) ScoreBar {
	return ScoreBar{Label: label, Correct: correct, Total: total, Width: width}
}

// Ratio returns Correct/Total, or 0 when nothing was answered.
func (b ScoreBar) Ratio() float64 {
	if b.Total <= 0 {
		return 0
	}
	return float64(b.Correct) / float64(b.Total)
}

func (b ScoreBar) fill() color.Color {
	switch r := b.Ratio(); {
	case r >= 0.8:
		return theme.Success
	case r >= 0.5:
		return theme.Warning
	}
	return theme.Error
}

// View renders the label, the bar and a "correct/total" count.
func (b ScoreBar) View() string {
	var prefix string
	if b.Label != "" {
		prefix = theme.Body.Render(b.Label) + "  "
	}
	count := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", b.Correct, b.Total))

	barWidth := max(b.Width-lipgloss.Width(prefix)-lipgloss.Width(count), 4)
	filled := min(int(float64(barWidth)*b.Ratio()), barWidth)

	return prefix +
		lipgloss.NewStyle().Background(b.fill()).Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		count
}
