// Package practice is the terminal screen for one adaptive practice
// session. It only forwards input to the engine and renders its state.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

type mode int

const (
	modeLoading mode = iota
	modeQuestion
	modeFeedback
	modeConfirmQuit
	modeError
)

// PracticeScreen implements screen.Screen for an active session.
type PracticeScreen struct {
	ctx     context.Context
	engine  *session.Engine
	userID  string
	skillID string

	mode   mode
	q      *question.Question
	result *session.Result
	state  session.State
	errMsg string

	choice components.MultiChoice
	inputs []components.TextInput
	focus  int
}

var (
	_ screen.Screen          = (*PracticeScreen)(nil)
	_ screen.KeyHintProvider = (*PracticeScreen)(nil)
	_ screen.StatusProvider  = (*PracticeScreen)(nil)
	_ screen.Interruptible   = (*PracticeScreen)(nil)
)

// New creates a PracticeScreen that begins a session for userID on skillID
// when initialized.
func New(ctx context.Context, engine *session.Engine, userID, skillID string) *PracticeScreen {
	return &PracticeScreen{ctx: ctx, engine: engine, userID: userID, skillID: skillID}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.begin(), tickCmd())
}

func (s *PracticeScreen) Title() string {
	return "Practice: " + s.skillID
}

func (s *PracticeScreen) Status() string {
	if !s.state.Phase.Active() {
		return ""
	}
	return statusLine(s.state)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeConfirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case modeFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Next question"}}
	case modeQuestion:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
		if s.q != nil && s.q.Kind == question.KindSingleChoice {
			hints = []layout.KeyHint{{Key: "↑↓", Description: "Move"}, {Key: "A-D", Description: "Pick"}, {Key: "Enter", Description: "Submit"}}
		} else if len(s.inputs) > 1 {
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next blank"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "End"})
	case modeError:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	}
	return nil
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case beganMsg:
		return s.handleBegan(msg)

	case advancedMsg:
		return s.handleAdvanced(msg)

	case finishedMsg:
		return s.handleFinished(msg)

	case timerTickMsg:
		s.state = s.engine.Snapshot()
		if s.state.Phase == session.PhaseFinished {
			return s, nil
		}
		return s, tickCmd()

	case tea.BlurMsg:
		s.engine.Pause()
		return s, nil

	case tea.FocusMsg:
		s.engine.Resume()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeQuestion && len(s.inputs) > 0 {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

// Interrupt abandons a session that is still running, e.g. on Ctrl+C.
func (s *PracticeScreen) Interrupt() {
	if s.engine.Snapshot().Phase.Active() {
		_, _ = s.engine.Abandon(s.ctx)
	}
}

func (s *PracticeScreen) begin() tea.Cmd {
	return func() tea.Msg {
		_, err := s.engine.Begin(s.ctx, s.userID, s.skillID)
		return beganMsg{Err: err}
	}
}

func (s *PracticeScreen) advance() tea.Cmd {
	return func() tea.Msg {
		_, err := s.engine.Advance(s.ctx)
		return advancedMsg{Err: err}
	}
}

func (s *PracticeScreen) finish() tea.Cmd {
	s.mode = modeLoading
	return func() tea.Msg {
		sum, err := s.engine.Finish(s.ctx)
		return finishedMsg{Summary: sum, Attempts: s.engine.Attempts(), Err: err}
	}
}

func (s *PracticeScreen) handleBegan(msg beganMsg) (screen.Screen, tea.Cmd) {
	s.state = s.engine.Snapshot()
	if errors.Is(msg.Err, session.ErrNoMoreQuestions) {
		return s.fail(fmt.Sprintf("No questions available for %q.", s.skillID))
	}
	if msg.Err != nil {
		return s.fail(msg.Err.Error())
	}
	return s, s.loadCurrent()
}

func (s *PracticeScreen) handleAdvanced(msg advancedMsg) (screen.Screen, tea.Cmd) {
	s.state = s.engine.Snapshot()
	if errors.Is(msg.Err, session.ErrNoMoreQuestions) {
		return s, s.finish()
	}
	if msg.Err != nil {
		return s.fail(msg.Err.Error())
	}
	return s, s.loadCurrent()
}

func (s *PracticeScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s.fail(msg.Err.Error())
	}
	next := summary.New(s.skillID, msg.Summary, msg.Attempts)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// loadCurrent shows the question the engine is waiting on.
func (s *PracticeScreen) loadCurrent() tea.Cmd {
	q, err := s.engine.Current()
	if err != nil {
		return s.finish()
	}

	s.q = q
	s.result = nil
	s.mode = modeQuestion
	s.inputs = nil
	s.focus = 0

	switch q.Kind {
	case question.KindSingleChoice:
		s.choice = components.NewMultiChoice(q.Options)
		return nil
	case question.KindMultiBlank:
		for i := range q.Blanks() {
			in := components.NewTextInput(fmt.Sprintf("blank %d", i+1), "", 20)
			if i > 0 {
				in.Blur()
			}
			s.inputs = append(s.inputs, in)
		}
	case question.KindFraction:
		s.inputs = []components.TextInput{components.NewTextInput("n/d", components.FractionChars, 12)}
	default:
		s.inputs = []components.TextInput{components.NewTextInput("Type your answer...", "", 40)}
	}
	return s.inputs[0].Init()
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeError:
		s.Interrupt()
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case modeConfirmQuit:
		switch key {
		case "y", "Y":
			return s, s.finish()
		case "n", "N", "esc":
			s.mode = modeQuestion
		}
		return s, nil

	case modeFeedback:
		s.mode = modeLoading
		return s, s.advance()

	case modeQuestion:
		if key == "esc" {
			s.mode = modeConfirmQuit
			return s, nil
		}
		if s.q.Kind == question.KindSingleChoice {
			var picked bool
			s.choice, picked = s.choice.Update(msg)
			if picked {
				return s.submit(question.ChoiceAt(s.choice.Selected))
			}
			return s, nil
		}
		switch key {
		case "enter":
			if s.blank() {
				return s, nil
			}
			return s.submit(s.submission())
		case "tab", "shift+tab":
			return s, s.moveFocus(key == "tab")
		}
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) moveFocus(forward bool) tea.Cmd {
	if len(s.inputs) < 2 {
		return nil
	}
	s.inputs[s.focus].Blur()
	if forward {
		s.focus = (s.focus + 1) % len(s.inputs)
	} else {
		s.focus = (s.focus + len(s.inputs) - 1) % len(s.inputs)
	}
	return s.inputs[s.focus].Focus()
}

// blank reports whether nothing has been typed in any input.
func (s *PracticeScreen) blank() bool {
	for _, in := range s.inputs {
		if strings.TrimSpace(in.Value()) != "" {
			return false
		}
	}
	return true
}

func (s *PracticeScreen) submission() question.Submission {
	switch s.q.Kind {
	case question.KindMultiBlank:
		values := make([]string, len(s.inputs))
		for i, in := range s.inputs {
			values[i] = in.Value()
		}
		return question.BlankAnswers(values...)
	case question.KindFraction:
		n, d, _ := strings.Cut(s.inputs[0].Value(), "/")
		return question.FractionAnswer(n, d)
	}
	return question.TextAnswer(s.inputs[0].Value())
}

func (s *PracticeScreen) submit(sub question.Submission) (screen.Screen, tea.Cmd) {
	res, err := s.engine.Submit(s.ctx, s.q, sub)
	if err != nil {
		return s.fail(err.Error())
	}
	s.result = res
	s.mode = modeFeedback
	if s.q.Kind == question.KindSingleChoice {
		s.choice.Reveal(sub.Choice, answer.KeyIndex(s.q))
	}
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	s.state = s.engine.Snapshot()
	return s, nil
}

func (s *PracticeScreen) fail(msg string) (screen.Screen, tea.Cmd) {
	s.errMsg = msg
	s.mode = modeError
	return s, nil
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
