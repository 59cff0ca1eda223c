// Package history shows finished sessions and their attempts.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// Reports is the read side of the store used by the screen.
type Reports interface {
	Reports(ctx context.Context, opts store.QueryOpts) ([]store.ReportRecord, error)
	SessionAttempts(ctx context.Context, sessionID string) ([]store.AttemptRecord, error)
}

type historyLoadedMsg struct {
	Reports []store.ReportRecord
	Err     error
}

type attemptsLoadedMsg struct {
	SessionID string
	Attempts  []store.AttemptRecord
	Err       error
}

// HistoryScreen lists past session reports. Enter expands a session to
// its attempts, loaded on first use.
type HistoryScreen struct {
	ctx      context.Context
	repo     Reports
	opts     store.QueryOpts
	reports  []store.ReportRecord
	attempts map[string][]store.AttemptRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen showing the reports opts selects.
func New(ctx context.Context, repo Reports, opts store.QueryOpts) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		repo:     repo,
		opts:     opts,
		attempts: make(map[string][]store.AttemptRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		reports, err := s.repo.Reports(s.ctx, s.opts)
		return historyLoadedMsg{Reports: reports, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.reports = msg.Reports
		}
		s.loaded = true
		return s, nil

	case attemptsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.attempts[msg.SessionID] = msg.Attempts
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.reports)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.reports) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadAttempts(s.reports[s.selected].SessionID)
		}
	}
	return s, nil
}

// loadAttempts fetches a session's attempts unless they are cached.
func (s *HistoryScreen) loadAttempts(sessionID string) tea.Cmd {
	if _, ok := s.attempts[sessionID]; ok || sessionID == "" {
		return nil
	}
	return func() tea.Msg {
		attempts, err := s.repo.SessionAttempts(s.ctx, sessionID)
		return attemptsLoadedMsg{SessionID: sessionID, Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.reports) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.reports {
		dateStr := r.FinishedAt.Local().Format("Jan 02, 2006")
		durationStr := fmt.Sprintf("%d:%02d", r.TimeTakenSecs/60, r.TimeTakenSecs%60)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-16s  %s  %d questions  %.0f%%  %s",
			prefix, dateStr, r.SkillID, durationStr, r.TotalQuestions, r.ScorePercent,
			theme.DifficultyBadge(r.Difficulty()))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAttempts(r.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAttempts(sessionID string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)

	attempts, ok := s.attempts[sessionID]
	switch {
	case sessionID == "":
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Attempts were not recorded (offline session)")) + "\n"
	case !ok:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading...")) + "\n"
	case len(attempts) == 0:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No attempts")) + "\n"
	}

	var b strings.Builder
	for _, a := range attempts {
		mark, style := "✓", theme.Correct
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
		}
		answer := a.SubmittedAnswer
		if answer == "" {
			answer = "(blank)"
		}
		line := fmt.Sprintf("    %s %-12s %-20s %3ds  %s", mark, a.QuestionID, answer, a.TimeSpentSecs, a.Difficulty)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
