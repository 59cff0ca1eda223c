// Package summary shows the results of a finished practice session.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// maxRows caps the per-attempt table.
const maxRows = 10

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	skillID  string
	summary  ledger.Summary
	attempts []ledger.Attempt
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(skillID string, summary ledger.Summary, attempts []ledger.Attempt) *SummaryScreen {
	return &SummaryScreen{skillID: skillID, summary: summary, attempts: attempts}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(theme.Title.Render("Session complete!")))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(s.skillID)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		"Time: " + formatSeconds(sum.TimeTakenSeconds))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d      Correct: %d (%.0f%%)      Final level: %s",
		sum.TotalQuestions, sum.CorrectAnswers, sum.ScorePercent, theme.DifficultyBadge(sum.FinalDifficulty))
	b.WriteString(center(theme.Body.Render(statsLine)))
	b.WriteString("\n\n")

	barWidth := min(width-8, 50)
	b.WriteString(center(components.NewScoreBar("Score", sum.CorrectAnswers, sum.TotalQuestions, barWidth).View()))
	b.WriteString("\n\n")

	if len(s.attempts) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answers")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")

	rows := s.attempts
	if len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	for i, a := range rows {
		mark := theme.Correct.Render("✓")
		if !a.IsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		line := fmt.Sprintf("%2d. %s  %-16s %-6s %4s",
			len(s.attempts)-len(rows)+i+1, mark, truncate(a.SubmittedAnswer, 16),
			a.DifficultyAtAttempt, formatSeconds(a.TimeSpentSeconds))
		b.WriteString(center(theme.Body.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatSeconds(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func truncate(s string, n int) string {
	if s == "" {
		return "(blank)"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
