// Package ledger records the attempts made during one practice session.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mathdrill/internal/question"
)

// ErrDuplicateAttempt is returned when a question already has an attempt.
var ErrDuplicateAttempt = errors.New("question already answered in this session")

// DuplicateAttemptError identifies the question that was answered twice.
type DuplicateAttemptError struct {
	QuestionID string
}

func (e *DuplicateAttemptError) Error() string {
	return fmt.Sprintf("duplicate attempt for question %s", e.QuestionID)
}

func (e *DuplicateAttemptError) Unwrap() error { return ErrDuplicateAttempt }

// Attempt is one recorded answer. Attempts are never mutated after they
// are recorded.
type Attempt struct {
	QuestionID          string
	SubmittedAnswer     string
	IsCorrect           bool
	TimeSpentSeconds    int
	DifficultyAtAttempt question.Difficulty
	RecordedAt          time.Time
}

// Summary is the aggregate of a session's attempts.
type Summary struct {
	TotalQuestions   int
	CorrectAnswers   int
	ScorePercent     float64
	TimeTakenSeconds int
	FinalDifficulty  question.Difficulty
}

// Ledger is an ordered, append-only list of attempts with at most one
// attempt per question. It is not safe for concurrent use; the session
// engine serializes access.
type Ledger struct {
	attempts []Attempt
	byID     map[string]int
	correct  int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{byID: make(map[string]int)}
}

// Record appends an attempt. A second attempt for the same question is
// rejected with a *DuplicateAttemptError and the ledger is unchanged.
func (l *Ledger) Record(a Attempt) error {
	if a.QuestionID == "" {
		return fmt.Errorf("attempt has no question id")
	}
	if a.TimeSpentSeconds < 0 {
		a.TimeSpentSeconds = 0
	}
	if _, ok := l.byID[a.QuestionID]; ok {
		return &DuplicateAttemptError{QuestionID: a.QuestionID}
	}

	l.byID[a.QuestionID] = len(l.attempts)
	l.attempts = append(l.attempts, a)
	if a.IsCorrect {
		l.correct++
	}
	return nil
}

// Has reports whether the question already has an attempt.
func (l *Ledger) Has(questionID string) bool {
	_, ok := l.byID[questionID]
	return ok
}

// Attempts returns a copy of the attempts in recording order.
func (l *Ledger) Attempts() []Attempt {
	out := make([]Attempt, len(l.attempts))
	copy(out, l.attempts)
	return out
}

// Last returns the most recent attempt.
func (l *Ledger) Last() (Attempt, bool) {
	if len(l.attempts) == 0 {
		return Attempt{}, false
	}
	return l.attempts[len(l.attempts)-1], true
}

// Len returns the number of attempts.
func (l *Ledger) Len() int { return len(l.attempts) }

// Correct returns the number of correct attempts.
func (l *Ledger) Correct() int { return l.correct }

// Summary folds the attempts recorded so far. It can be called at any
// time. FinalDifficulty is the tier of the last attempt; the engine
// overrides it with the controller's tier when the session ends.
func (l *Ledger) Summary() Summary {
	s := Summary{
		TotalQuestions:  len(l.attempts),
		FinalDifficulty: question.Easy,
	}
	for _, a := range l.attempts {
		if a.IsCorrect {
			s.CorrectAnswers++
		}
		s.TimeTakenSeconds += a.TimeSpentSeconds
		s.FinalDifficulty = a.DifficultyAtAttempt
	}
	s.ScorePercent = ScorePercent(s.CorrectAnswers, s.TotalQuestions)
	return s
}

// ScorePercent returns 100 * correct / total, or 0 when total is 0.
func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}
