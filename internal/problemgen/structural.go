package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathdrill/internal/question"
)

const (
	maxTextLen     = 500
	maxSolutionLen = 1000
)

// StructuralValidator checks that required fields are present, within
// length limits, and consistent with the question kind.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	switch {
	case strings.TrimSpace(q.Text) == "":
		return fail("text is empty")
	case len(q.Text) > maxTextLen:
		return fail("text exceeds %d characters", maxTextLen)
	case strings.TrimSpace(q.Solution) == "":
		return fail("solution is empty")
	case len(q.Solution) > maxSolutionLen:
		return fail("solution exceeds %d characters", maxSolutionLen)
	case !q.Kind.Valid():
		return fail("unknown kind %q", q.Kind)
	}

	if q.Kind == question.KindSingleChoice {
		if len(q.Options) < 2 {
			return fail("single choice needs at least 2 options, got %d", len(q.Options))
		}
		seen := make(map[string]bool, len(q.Options))
		for i, opt := range q.Options {
			key := strings.ToLower(strings.TrimSpace(opt))
			if key == "" {
				return fail("option %d is empty", i+1)
			}
			if seen[key] {
				return fail("duplicate option %q", opt)
			}
			seen[key] = true
		}
	} else if len(q.Options) > 0 {
		return fail("%s question must not have options", q.Kind)
	}
	return nil
}
