package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// MultiChoice is a single-choice selector. Correctness is decided
// elsewhere; Reveal only marks the outcome for display.
type MultiChoice struct {
	Options  []string
	Selected int

	revealed bool
	chosen   int
	correct  int
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosen: -1, correct: -1}
}

// Update handles keyboard navigation. Letter and number keys jump to the
// matching option and report it as picked.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	if m.revealed {
		return m, false
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, false
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, false
	case "enter":
		return m, len(m.Options) > 0
	}

	for i := range m.Options {
		if key == answer.Letter(i) || key == fmt.Sprint(i+1) {
			m.Selected = i
			return m, true
		}
	}
	return m, false
}

// Reveal marks the picked and correct options. correct may be -1.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
}

// View renders the options with letter labels.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, strings.ToUpper(answer.Letter(i)), opt)

		var style lipgloss.Style
		switch {
		case m.revealed && i == m.correct:
			style = theme.Correct
		case m.revealed && i == m.chosen:
			style = theme.Incorrect
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
