package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/mathdrill/internal/ledger"
)

var (
	// ErrSessionClosed is returned by any mutating call after Finish or
	// Abandon.
	ErrSessionClosed = errors.New("session is closed")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase, such as Advance before Submit.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNoMoreQuestions means the question source has nothing left to
	// serve. The caller should end the session.
	ErrNoMoreQuestions = errors.New("no more questions")

	// ErrQuestionMismatch is returned when Submit is called with a question
	// other than the current one.
	ErrQuestionMismatch = errors.New("question is not the current question")

	// ErrDuplicateAttempt is returned when a question is answered twice.
	ErrDuplicateAttempt = ledger.ErrDuplicateAttempt
)

// TransitionError describes a rejected operation.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.Phase)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
