package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body",
}

func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := builder().Insert(tableLLMRequests).
		Columns(llmEventColumns[1:]...).
		Values(seqNum, s.now().UTC(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (s *Store) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := builder().
		Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts, "timestamp")
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.FailedOnly {
		sel.Where(entsql.EQ("success", false))
	}
	q, args := sel.Query()

	events, err := s.scanLLMEvents(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (s *Store) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	q, args := builder().
		Select(llmEventColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()

	events, err := s.scanLLMEvents(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// LLMUsageByPurpose aggregates token usage per purpose.
func (s *Store) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	usage, err := s.llmUsage(ctx, "purpose")
	if err != nil {
		return nil, err
	}
	for i := range usage {
		usage[i].Purpose, usage[i].Model = usage[i].Model, ""
	}
	return usage, nil
}

// LLMUsageByModel aggregates token usage per model.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return s.llmUsage(ctx, "model")
}

// llmUsage groups by column and returns the group key in Model.
func (s *Store) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	q, args := builder().
		Select(column, entsql.Count("*"), entsql.Sum("input_tokens"), entsql.Sum("output_tokens"), entsql.Avg("latency_ms")).
		From(entsql.Table(tableLLMRequests)).
		GroupBy(column).
		OrderBy(column).
		Query()

	var out []LLMUsage
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var u LLMUsage
		var in, outTok sql.NullInt64
		var avg sql.NullFloat64
		if err := rows.Scan(&u.Model, &u.Calls, &in, &outTok, &avg); err != nil {
			return err
		}
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(outTok.Int64)
		u.AvgLatencyMs = int64(avg.Float64)
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	return out, nil
}

func (s *Store) scanLLMEvents(ctx context.Context, q string, args []any) ([]LLMRequestEventRecord, error) {
	var out []LLMRequestEventRecord
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var e LLMRequestEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}
