package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/question"
)

// Phase is the engine's position in the session lifecycle.
//
//	NotStarted -> AwaitingAnswer <-> Answered -> Finished
//
// AwaitingAnswer and Answered together form the active session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingAnswer
	PhaseAnswered
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseAwaitingAnswer:
		return "awaiting answer"
	case PhaseAnswered:
		return "answered"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Active reports whether the session has begun and not yet finished.
func (p Phase) Active() bool {
	return p == PhaseAwaitingAnswer || p == PhaseAnswered
}

// State is a read-only copy of the session's runtime state for display.
type State struct {
	Phase  Phase
	Handle Handle

	UserID  string
	SkillID string

	// QuestionIndex counts questions moved past with Advance.
	QuestionIndex int

	// QuestionsSeen is the number of questions received from the source.
	QuestionsSeen int

	CurrentDifficulty         question.Difficulty
	ConsecutiveCorrectAtLevel int

	TotalAnswered int
	TotalCorrect  int

	// QuestionElapsed is the active time on the current question.
	QuestionElapsed time.Duration

	StartedAt time.Time

	// Loading is set while the engine waits on the question source.
	Loading bool
}

// LocalOnly reports whether the session has no remote record.
func (s State) LocalOnly() bool {
	return s.Handle == ""
}
