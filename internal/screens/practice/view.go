package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch s.mode {
	case modeLoading:
		return renderLoading(width)
	case modeError:
		return renderError(width, s.errMsg)
	case modeConfirmQuit:
		return renderQuitConfirm(width)
	case modeFeedback:
		return s.renderQuestionView(width) + s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

// statusLine renders the header status: difficulty, streak and score.
func statusLine(st session.State) string {
	score := ledger.ScorePercent(st.TotalCorrect, st.TotalAnswered)
	return fmt.Sprintf("%s  streak %d  %d/%d (%.0f%%)",
		theme.DifficultyBadge(st.CurrentDifficulty),
		st.ConsecutiveCorrectAtLevel,
		st.TotalCorrect, st.TotalAnswered, score)
}

func (s *PracticeScreen) renderQuestionView(width int) string {
	if s.q == nil {
		return renderLoading(width)
	}

	var b strings.Builder

	elapsed := int(s.state.QuestionElapsed.Seconds())
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d", s.state.TotalAnswered+boolInt(s.mode == modeQuestion)))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  %d:%02d", theme.DifficultyBadge(s.q.Difficulty), elapsed/60, elapsed%60))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(s.q.Text))
	b.WriteString("\n\n")

	switch s.q.Kind {
	case question.KindSingleChoice:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	case question.KindMultiBlank:
		var lines []string
		for i, in := range s.inputs {
			label := fmt.Sprintf("Blank %d: ", i+1)
			if i == s.focus && s.mode == modeQuestion {
				label = theme.Selected.Render(label)
			}
			lines = append(lines, label+in.View())
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n")))
	default:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.inputs[0].View()))
	}
	b.WriteString("\n")

	return b.String()
}

func (s *PracticeScreen) renderFeedback(width int) string {
	if s.result == nil {
		return ""
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString("\n")

	if s.result.Correct {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Correct!"))
	} else {
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("Correct answer: " + s.result.CorrectAnswer))
	}
	b.WriteString("\n\n")

	if s.result.Solution != "" {
		sol := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(s.result.Solution)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, sol))
		b.WriteString("\n\n")
	}

	b.WriteString(center.Foreground(theme.TextDim).Render("Press any key to continue..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your answers so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your questions...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
