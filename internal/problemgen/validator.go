package problemgen

import (
	"fmt"

	"github.com/abhisek/mathdrill/internal/question"
)

// Validator checks a generated question before it is handed to a session.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "structural", "answer-key", "math-check".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *question.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
