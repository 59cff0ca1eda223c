package store

import (
	"context"
	"time"
)

// QueryOpts configures record queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// UserID and SkillID narrow report queries. Empty matches all.
	UserID  string
	SkillID string

	// Purpose and FailedOnly narrow LLM event queries.
	Purpose    string
	FailedOnly bool
}

// SessionRecord is a persisted session row.
type SessionRecord struct {
	ID        string
	UserID    string
	SkillID   string
	Status    string
	StartedAt time.Time
	EndedAt   time.Time // zero while active
}

// AttemptRecord is a persisted attempt.
type AttemptRecord struct {
	ID              int
	Sequence        int64
	SessionID       string
	QuestionID      string
	SubmittedAnswer string
	Correct         bool
	TimeSpentSecs   int
	Difficulty      string
	RecordedAt      time.Time
}

// ReportRecord is a persisted session report.
type ReportRecord struct {
	ID              int
	Sequence        int64
	SessionID       string
	UserID          string
	SkillID         string
	TotalQuestions  int
	CorrectAnswers  int
	ScorePercent    float64
	TimeTakenSecs   int
	FinalDifficulty string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Accuracy aggregates attempts for one learner and skill.
type Accuracy struct {
	Attempts int
	Correct  int
}

// Ratio returns Correct/Attempts, or 0 with no attempts.
func (a Accuracy) Ratio() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Attempts)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a persisted LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM requests by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns the event with id, or nil if there is none.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}

var _ EventRepo = (*Store)(nil)
