package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

// Publish stores a finished session's report. A session's report is stored
// once; publishing it again is a no-op.
func (s *Store) Publish(ctx context.Context, r session.Report) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	finished := r.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	started := r.StartedAt
	if started.IsZero() {
		started = finished
	}
	sum := r.Summary
	q, args := builder().Insert(tableReports).
		Columns("sequence", "session_id", "user_id", "skill_id", "total_questions",
			"correct_answers", "score_percent", "time_taken_secs", "final_difficulty",
			"started_at", "finished_at").
		Values(seq, string(r.Handle), r.UserID, r.SkillID, sum.TotalQuestions,
			sum.CorrectAnswers, sum.ScorePercent, sum.TimeTakenSeconds, sum.FinalDifficulty.String(),
			started.UTC(), finished.UTC()).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ConflictWhere(entsql.ExprP(reportHasSession)),
			entsql.DoNothing(),
		).
		Query()
	if _, err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Reports returns session reports newest first.
func (s *Store) Reports(ctx context.Context, opts QueryOpts) ([]ReportRecord, error) {
	sel := builder().
		Select("id", "sequence", "session_id", "user_id", "skill_id", "total_questions",
			"correct_answers", "score_percent", "time_taken_secs", "final_difficulty",
			"started_at", "finished_at").
		From(entsql.Table(tableReports)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts, "finished_at")
	if opts.UserID != "" {
		sel.Where(entsql.EQ("user_id", opts.UserID))
	}
	if opts.SkillID != "" {
		sel.Where(entsql.EQ("skill_id", opts.SkillID))
	}
	q, args := sel.Query()

	var out []ReportRecord
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var r ReportRecord
		if err := rows.Scan(&r.ID, &r.Sequence, &r.SessionID, &r.UserID, &r.SkillID, &r.TotalQuestions,
			&r.CorrectAnswers, &r.ScorePercent, &r.TimeTakenSecs, &r.FinalDifficulty,
			&r.StartedAt, &r.FinishedAt); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	return out, nil
}

// Difficulty parses the stored final difficulty.
func (r ReportRecord) Difficulty() question.Difficulty {
	d, _ := question.ParseDifficulty(r.FinalDifficulty)
	return d
}

// Duration returns the active time of the session.
func (r ReportRecord) Duration() time.Duration {
	return time.Duration(r.TimeTakenSecs) * time.Second
}

// applyOpts adds the QueryOpts sequence, time and limit filters to sel.
func applyOpts(sel *entsql.Selector, opts QueryOpts, timeColumn string) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(timeColumn, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(timeColumn, opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
