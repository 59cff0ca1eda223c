package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// reportHasSession is the predicate of the partial unique index on
// reports.session_id.
const reportHasSession = "session_id <> ''"

// Table and column names.
const (
	tableSessions    = "sessions"
	tableAttempts    = "attempts"
	tableReports     = "reports"
	tableLLMRequests = "llm_requests"
)

// Session statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

const textSize = 2147483647

var (
	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString, Default: StatusActive},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime, Nullable: true},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_user_id_skill_id", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[2]}},
		},
	}

	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "submitted_answer", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_spent_secs", Type: field.TypeInt, Default: 0},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	attemptsTable = &schema.Table{
		Name:       tableAttempts,
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempt_sequence", Columns: []*schema.Column{attemptsColumns[1]}},
			{Name: "attempt_session_id_question_id", Unique: true, Columns: []*schema.Column{attemptsColumns[2], attemptsColumns[3]}},
		},
	}

	reportsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "correct_answers", Type: field.TypeInt},
		{Name: "score_percent", Type: field.TypeFloat64},
		{Name: "time_taken_secs", Type: field.TypeInt},
		{Name: "final_difficulty", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime},
	}
	reportsTable = &schema.Table{
		Name:       tableReports,
		Columns:    reportsColumns,
		PrimaryKey: []*schema.Column{reportsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "report_user_id_skill_id", Columns: []*schema.Column{reportsColumns[3], reportsColumns[4]}},
			{Name: "report_finished_at", Columns: []*schema.Column{reportsColumns[11]}},
			// Local-only sessions have no id and are not deduplicated.
			{Name: "report_session_id", Unique: true, Columns: []*schema.Column{reportsColumns[2]},
				Annotation: &entsql.IndexAnnotation{Where: reportHasSession}},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{llmRequestsColumns[5]}},
			{Name: "llmrequest_timestamp", Columns: []*schema.Column{llmRequestsColumns[2]}},
		},
	}

	tables = []*schema.Table{sessionsTable, attemptsTable, reportsTable, llmRequestsTable}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}
