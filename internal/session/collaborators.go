package session

import (
	"context"
	"time"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
)

// Handle is an opaque remote session identifier. The empty handle means the
// session runs in local-only mode.
type Handle string

// FetchRequest asks a QuestionSource for more questions.
type FetchRequest struct {
	SkillID    string
	Count      int
	Difficulty question.Difficulty

	// QuestionType narrows the request to one question type when the skill
	// offers several. Empty means no preference.
	QuestionType string
}

// Batch is a QuestionSource response. A batch with no questions and a
// non-empty AvailableTypes asks the caller to pick a type and fetch again.
type Batch struct {
	Questions      []*question.Question
	AvailableTypes []string
}

// SelectionNeeded reports whether the source wants a question type chosen.
func (b *Batch) SelectionNeeded() bool {
	return b != nil && len(b.Questions) == 0 && len(b.AvailableTypes) > 0
}

// QuestionSource supplies questions for a skill at a difficulty.
type QuestionSource interface {
	Fetch(ctx context.Context, req FetchRequest) (*Batch, error)
}

// SessionService manages the remote session record.
type SessionService interface {
	Open(ctx context.Context, userID, skillID string) (Handle, error)
	Close(ctx context.Context, h Handle) error
}

// AttemptSink receives each attempt after it is recorded locally.
// Implementations should upsert on (session, question) since deliveries may
// be retried.
type AttemptSink interface {
	Record(ctx context.Context, a ledger.Attempt, h Handle) error
}

// Report is what a finished session publishes.
type Report struct {
	Summary    ledger.Summary
	UserID     string
	SkillID    string
	Handle     Handle
	StartedAt  time.Time
	FinishedAt time.Time
}

// ReportSink receives the summary of a finished session.
type ReportSink interface {
	Publish(ctx context.Context, r Report) error
}

// ReportSinks fans a report out to several sinks. Every sink is called;
// the first error is returned. The Engine delivers to each member on its
// own, so a failing sink is retried without repeating the others.
type ReportSinks []ReportSink

func (s ReportSinks) Publish(ctx context.Context, r Report) error {
	var first error
	for _, sink := range s {
		if err := sink.Publish(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// AttemptSinks fans an attempt out to several sinks. Every sink is called;
// the first error is returned. The Engine delivers to each member on its
// own.
type AttemptSinks []AttemptSink

func (s AttemptSinks) Record(ctx context.Context, a ledger.Attempt, h Handle) error {
	var first error
	for _, sink := range s {
		if err := sink.Record(ctx, a, h); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// reportTargets flattens nested ReportSinks into the sinks to deliver to.
func reportTargets(s ReportSink) []ReportSink {
	switch s := s.(type) {
	case nil:
		return nil
	case ReportSinks:
		var out []ReportSink
		for _, sink := range s {
			out = append(out, reportTargets(sink)...)
		}
		return out
	}
	return []ReportSink{s}
}

// attemptTargets flattens nested AttemptSinks into the sinks to deliver to.
func attemptTargets(s AttemptSink) []AttemptSink {
	switch s := s.(type) {
	case nil:
		return nil
	case AttemptSinks:
		var out []AttemptSink
		for _, sink := range s {
			out = append(out, attemptTargets(sink)...)
		}
		return out
	}
	return []AttemptSink{s}
}
