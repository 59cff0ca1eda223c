package question

import (
	"fmt"
	"strings"
)

// Kind describes how the learner answers a question.
type Kind string

const (
	// KindSingleChoice means the learner picks one of Options.
	KindSingleChoice Kind = "single_choice"

	// KindMultiBlank means the learner fills several blanks in order.
	// The answer key joins the expected values with BlankSeparator.
	KindMultiBlank Kind = "multi_blank"

	// KindFraction means the learner enters a numerator and an optional
	// denominator.
	KindFraction Kind = "fraction"

	// KindFreeText means the learner types a free-form answer.
	KindFreeText Kind = "free_text"
)

// BlankSeparator joins per-blank values in a MultiBlank answer key.
const BlankSeparator = "|"

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSingleChoice, KindMultiBlank, KindFraction, KindFreeText:
		return true
	}
	return false
}

// Question is a concrete question instance issued by a question source.
// Questions are immutable once handed to a session.
type Question struct {
	// ID uniquely identifies the question within a session.
	ID string

	// Text is the prompt shown to the learner. May contain markup that the
	// rendering layer interprets.
	Text string

	Kind Kind

	// Options is populated only for KindSingleChoice, in display order.
	Options []string

	// CorrectAnswer is the canonical answer key.
	// For single choice it is the option text, a letter ("b") or a 1-based
	// ordinal ("2"). For multi blank it is the expected values joined by "|".
	CorrectAnswer string

	// Solution is a worked explanation shown after the learner answers.
	Solution string

	Difficulty Difficulty
}

// Blanks returns the expected per-blank values of a MultiBlank key.
func (q *Question) Blanks() []string {
	return strings.Split(q.CorrectAnswer, BlankSeparator)
}

// Validate checks the structural constraints a session relies on.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("question %s: unknown kind %q", q.ID, q.Kind)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s: unknown difficulty %d", q.ID, q.Difficulty)
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("question %s: empty answer key", q.ID)
	}
	if q.Kind == KindSingleChoice && len(q.Options) == 0 {
		return fmt.Errorf("question %s: single choice without options", q.ID)
	}
	return nil
}
