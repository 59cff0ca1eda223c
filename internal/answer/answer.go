// Package answer decides whether a learner's submission matches a
// question's answer key.
package answer

import (
	"strconv"
	"strings"

	"github.com/abhisek/mathdrill/internal/question"
)

// Check compares the learner's submission against the question's answer key.
// Returns true if the answer is correct. Check has no side effects.
//
// Normalization rules:
// - Whitespace around values is trimmed
// - Single choice, multi blank and free text compare case-insensitively
// - Single choice also accepts a key stored as the picked option's letter
//   ("a", "b", ...) or 1-based ordinal ("1", "2", ...)
// - Multi blank requires every blank to match; there is no partial credit
// - Fractions compare the literal "n/d" (or "n") form exactly
func Check(q *question.Question, sub question.Submission) bool {
	if q == nil {
		return false
	}

	switch q.Kind {
	case question.KindSingleChoice:
		return checkSingleChoice(q, sub)
	case question.KindMultiBlank:
		return checkMultiBlank(q, sub)
	case question.KindFraction:
		return checkFraction(q, sub)
	case question.KindFreeText:
		return matchFold(sub.Text, q.CorrectAnswer)
	}
	return false
}

// checkSingleChoice matches by option text, then falls back to the
// letter and ordinal encodings of the option's position.
func checkSingleChoice(q *question.Question, sub question.Submission) bool {
	text := sub.Render(q)
	if strings.TrimSpace(text) == "" {
		return false
	}
	if matchFold(text, q.CorrectAnswer) {
		return true
	}

	pos := optionPosition(q, sub)
	if pos < 0 {
		return false
	}
	key := strings.TrimSpace(q.CorrectAnswer)
	if key == "" {
		return false
	}
	return strings.EqualFold(key, Letter(pos)) || key == strconv.Itoa(pos+1)
}

// optionPosition returns the 0-based position the submission came from,
// or -1 if it cannot be determined.
func optionPosition(q *question.Question, sub question.Submission) int {
	if sub.Chosen {
		if sub.Choice >= 0 && sub.Choice < len(q.Options) {
			return sub.Choice
		}
		return -1
	}
	for i, opt := range q.Options {
		if matchFold(sub.Text, opt) {
			return i
		}
	}
	return -1
}

// checkMultiBlank requires the same number of values as the key, padding
// a short submission with empty strings.
func checkMultiBlank(q *question.Question, sub question.Submission) bool {
	values := sub.Blanks
	if len(values) == 0 && sub.Text != "" {
		values = strings.Split(sub.Text, question.BlankSeparator)
	}
	if allBlank(values) {
		return false
	}

	expected := q.Blanks()
	if len(values) > len(expected) {
		return false
	}
	for i, want := range expected {
		var got string
		if i < len(values) {
			got = values[i]
		}
		if !strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want)) {
			return false
		}
	}
	return true
}

// checkFraction compares literal string forms. No reduction is applied, so
// "2/4" does not match a key of "1/2".
func checkFraction(q *question.Question, sub question.Submission) bool {
	got := strings.TrimSpace(sub.Render(q))
	if got == "" {
		return false
	}
	return got == strings.TrimSpace(q.CorrectAnswer)
}

// KeyIndex resolves a single-choice answer key, stored as option text,
// letter or 1-based ordinal, to a 0-based option position. Returns -1 if
// the key matches no option.
func KeyIndex(q *question.Question) int {
	key := strings.TrimSpace(q.CorrectAnswer)
	if key == "" {
		return -1
	}
	for i, opt := range q.Options {
		if matchFold(opt, key) {
			return i
		}
	}
	for i := range q.Options {
		if strings.EqualFold(key, Letter(i)) || key == strconv.Itoa(i+1) {
			return i
		}
	}
	return -1
}

// Letter returns the lowercase letter for a 0-based option position.
func Letter(pos int) string {
	if pos < 0 || pos > 25 {
		return ""
	}
	return string(rune('a' + pos))
}

func matchFold(got, want string) bool {
	got = strings.TrimSpace(got)
	if got == "" {
		return false
	}
	return strings.EqualFold(got, strings.TrimSpace(want))
}

func allBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
