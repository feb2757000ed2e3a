package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var llmRequestColumns = []string{
	"id", "created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

// eventRepo implements EventRepo over the llm_requests table.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, e LLMRequest) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder().Insert("llm_requests").
		Columns(llmRequestColumns[1:]...).
		Values(
			ts.UTC().Format(time.RFC3339Nano),
			e.Provider,
			e.Model,
			e.Purpose,
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			boolInt(e.Success),
			e.ErrorMessage,
			e.RequestBody,
			e.ResponseBody,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMRequests(ctx context.Context, limit int) ([]LLMRequest, error) {
	sel := builder().Select(llmRequestColumns...).
		From(entsql.Table("llm_requests")).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	events, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) LLMRequest(ctx context.Context, id int64) (*LLMRequest, error) {
	query, args := builder().Select(llmRequestColumns...).
		From(entsql.Table("llm_requests")).
		Where(entsql.EQ("id", id)).
		Query()

	events, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("LLM event %d: %w", id, ErrNotFound)
	}
	return &events[0], nil
}

func (r *eventRepo) scan(ctx context.Context, query string, args []any) ([]LLMRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var (
			e       LLMRequest
			ts      string
			success int64
		)
		err := rows.Scan(&e.ID, &ts, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success,
			&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
		if err != nil {
			return nil, err
		}
		e.Timestamp = parseTime(ts)
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// explanationRepo implements ExplanationRepo over the ai_explanations table.
type explanationRepo struct {
	db *sql.DB
}

func (r *explanationRepo) Get(ctx context.Context, questionID int64) (*Explanation, error) {
	query, args := builder().Select("question_id", "content", "model", "created_at").
		From(entsql.Table("ai_explanations")).
		Where(entsql.EQ("question_id", questionID)).
		Query()

	var (
		e  Explanation
		ts string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.QuestionID, &e.Content, &e.Model, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get explanation: %w", err)
	}
	e.CreatedAt = parseTime(ts)
	return &e, nil
}

func (r *explanationRepo) Put(ctx context.Context, e Explanation) error {
	ts := e.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder().Insert("ai_explanations").
		Columns("question_id", "content", "model", "created_at").
		Values(e.QuestionID, e.Content, e.Model, ts.UTC().Format(time.RFC3339Nano)).
		OnConflict(
			entsql.ConflictColumns("question_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save explanation: %w", err)
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
