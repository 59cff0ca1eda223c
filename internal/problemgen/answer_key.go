package problemgen

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/question"
)

var fractionKeyPattern = regexp.MustCompile(`^-?\d+(/\d+)?$`)

// AnswerKeyValidator checks that the answer key can actually be matched by
// a learner's submission for the question's kind.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(q *question.Question) *ValidationError {
	key := strings.TrimSpace(q.CorrectAnswer)
	if key == "" {
		return v.fail("answer key is empty")
	}

	switch q.Kind {
	case question.KindSingleChoice:
		if answer.KeyIndex(q) < 0 {
			return v.fail("answer key %q matches no option", key)
		}
	case question.KindMultiBlank:
		for _, blank := range q.Blanks() {
			if strings.TrimSpace(blank) == "" {
				return v.fail("answer key %q has an empty blank", key)
			}
		}
	case question.KindFraction:
		if !fractionKeyPattern.MatchString(key) {
			return v.fail("fraction key %q is not n/d", key)
		}
		// SetString rejects a zero denominator.
		if _, ok := new(big.Rat).SetString(key); !ok {
			return v.fail("fraction key %q has a zero denominator", key)
		}
	}
	return nil
}

func (v *AnswerKeyValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
}
