package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/session"
)

var (
	_ session.SessionService = (*SessionRepo)(nil)
	_ session.AttemptSink    = (*Store)(nil)
	_ session.ReportSink     = (*Store)(nil)
)

// SessionRepo manages session rows. It implements session.SessionService.
type SessionRepo struct {
	s *Store
}

// Sessions returns the session service backed by this store.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{s: s}
}

// Open creates a session row and returns its id as the handle.
func (r *SessionRepo) Open(ctx context.Context, userID, skillID string) (session.Handle, error) {
	id := uuid.NewString()
	q, args := builder().Insert(tableSessions).
		Columns("id", "user_id", "skill_id", "status", "started_at").
		Values(id, userID, skillID, StatusActive, r.s.now().UTC()).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.Handle(id), nil
}

// Close marks the session closed. Closing twice keeps the first end time.
func (r *SessionRepo) Close(ctx context.Context, h session.Handle) error {
	q, args := builder().Update(tableSessions).
		Set("status", StatusClosed).
		Set("ended_at", r.s.now().UTC()).
		Where(entsql.And(
			entsql.EQ("id", string(h)),
			entsql.EQ("status", StatusActive),
		)).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("close session %s: %w", h, err)
	}
	return nil
}

// Session returns the session with id, or nil if there is none.
func (s *Store) Session(ctx context.Context, id string) (*SessionRecord, error) {
	q, args := builder().
		Select("id", "user_id", "skill_id", "status", "started_at", "ended_at").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	var rec *SessionRecord
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var r SessionRecord
		var ended sql.NullTime
		if err := rows.Scan(&r.ID, &r.UserID, &r.SkillID, &r.Status, &r.StartedAt, &ended); err != nil {
			return err
		}
		if ended.Valid {
			r.EndedAt = ended.Time
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return rec, nil
}

// Record upserts an attempt keyed by (session, question), so a retried
// delivery leaves a single row.
func (s *Store) Record(ctx context.Context, a ledger.Attempt, h session.Handle) error {
	if h == "" {
		return fmt.Errorf("record attempt %s: no session", a.QuestionID)
	}
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	recordedAt := a.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	q, args := builder().Insert(tableAttempts).
		Columns("sequence", "session_id", "question_id", "submitted_answer",
			"correct", "time_spent_secs", "difficulty", "recorded_at").
		Values(seq, string(h), a.QuestionID, a.SubmittedAnswer,
			a.IsCorrect, a.TimeSpentSeconds, a.DifficultyAtAttempt.String(), recordedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("session_id", "question_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("submitted_answer")
				u.SetExcluded("correct")
				u.SetExcluded("time_spent_secs")
				u.SetExcluded("difficulty")
				u.SetExcluded("recorded_at")
			}),
		).
		Query()
	if _, err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// SessionAttempts returns the attempts of a session in recorded order.
func (s *Store) SessionAttempts(ctx context.Context, sessionID string) ([]AttemptRecord, error) {
	q, args := builder().
		Select("id", "sequence", "session_id", "question_id", "submitted_answer",
			"correct", "time_spent_secs", "difficulty", "recorded_at").
		From(entsql.Table(tableAttempts)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	var out []AttemptRecord
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var r AttemptRecord
		if err := rows.Scan(&r.ID, &r.Sequence, &r.SessionID, &r.QuestionID, &r.SubmittedAnswer,
			&r.Correct, &r.TimeSpentSecs, &r.Difficulty, &r.RecordedAt); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return out, nil
}

// SkillAccuracy aggregates every recorded attempt of userID on skillID.
func (s *Store) SkillAccuracy(ctx context.Context, userID, skillID string) (Accuracy, error) {
	a := entsql.Table(tableAttempts)
	ss := entsql.Table(tableSessions)
	q, args := builder().
		Select(entsql.Count(a.C("id")), entsql.Sum(a.C("correct"))).
		From(a).
		Join(ss).On(a.C("session_id"), ss.C("id")).
		Where(entsql.And(
			entsql.EQ(ss.C("user_id"), userID),
			entsql.EQ(ss.C("skill_id"), skillID),
		)).
		Query()

	var acc Accuracy
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var total, correct sql.NullInt64
		if err := rows.Scan(&total, &correct); err != nil {
			return err
		}
		acc.Attempts = int(total.Int64)
		acc.Correct = int(correct.Int64)
		return nil
	})
	if err != nil {
		return Accuracy{}, fmt.Errorf("query skill accuracy: %w", err)
	}
	return acc, nil
}
