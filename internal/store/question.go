package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var questionColumns = []string{
	"id", "question", "options", "correct_answer", "explanation", "note", "flagged",
}

// questionRepo implements QuestionRepo over database/sql.
type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) Insert(ctx context.Context, rows []NewQuestion) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for i, row := range rows {
		cols := []string{"question", "options", "correct_answer", "explanation", "note", "flagged"}
		vals := []any{
			row.Text,
			JoinField(row.Options),
			JoinField(row.Correct),
			nullString(row.Explanation),
			nullString(row.Note),
			boolInt(row.Flagged),
		}
		if row.ID != 0 {
			cols = append([]string{"id"}, cols...)
			vals = append([]any{row.ID}, vals...)
		}

		query, args := builder().Insert("questions").Columns(cols...).Values(vals...).Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i+1, err)
		}

		id := row.ID
		if id == 0 {
			if id, err = res.LastInsertId(); err != nil {
				return 0, fmt.Errorf("insert question %d: %w", i+1, err)
			}
		}
		if err := insertOptions(ctx, tx, id, row.Options, row.Correct); err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(rows), nil
}

func (r *questionRepo) All(ctx context.Context) ([]Question, error) {
	query, args := builder().Select(questionColumns...).
		From(entsql.Table("questions")).
		OrderBy("id").
		Query()

	qs, err := r.scanQuestions(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	if err := r.attachOptions(ctx, qs); err != nil {
		return nil, fmt.Errorf("select options: %w", err)
	}
	return qs, nil
}

func (r *questionRepo) Get(ctx context.Context, id int64) (*Question, error) {
	query, args := builder().Select(questionColumns...).
		From(entsql.Table("questions")).
		Where(entsql.EQ("id", id)).
		Query()
	return r.one(ctx, query, args, id)
}

func (r *questionRepo) Random(ctx context.Context, f Filter) (*Question, error) {
	sel := builder().Select(questionColumns...).From(entsql.Table("questions"))

	var preds []*entsql.Predicate
	if f.FlaggedOnly {
		preds = append(preds, entsql.EQ("flagged", 1))
	}
	if f.IncorrectOnly {
		missed := entsql.Select("question_id").
			From(entsql.Table("results")).
			Where(entsql.EQ("correct", 0))
		preds = append(preds, entsql.In("id", missed))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}

	query, args := sel.OrderExpr(entsql.Expr("RANDOM()")).Limit(1).Query()
	q, err := r.one(ctx, query, args, 0)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return q, err
}

func (r *questionRepo) SetFlag(ctx context.Context, id int64, flagged bool) error {
	query, args := builder().Update("questions").
		Set("flagged", boolInt(flagged)).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update flag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *questionRepo) ClearFlags(ctx context.Context) (int64, error) {
	query, args := builder().Update("questions").
		Set("flagged", 0).
		Where(entsql.EQ("flagged", 1)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear flags: %w", err)
	}
	return res.RowsAffected()
}

func (r *questionRepo) Count(ctx context.Context) (total, flagged int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(flagged = 1), 0) FROM questions`,
	).Scan(&total, &flagged)
	if err != nil {
		return 0, 0, fmt.Errorf("count questions: %w", err)
	}
	return total, flagged, nil
}

// one runs a single-row question query and attaches its options.
func (r *questionRepo) one(ctx context.Context, query string, args []any, id int64) (*Question, error) {
	qs, err := r.scanQuestions(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("select question: %w", err)
	}
	if len(qs) == 0 {
		if id != 0 {
			return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return nil, ErrNotFound
	}
	if err := r.attachOptions(ctx, qs[:1]); err != nil {
		return nil, fmt.Errorf("select options: %w", err)
	}
	return &qs[0], nil
}

// scanQuestions reads question rows. Option lists are filled from the flat
// columns here and replaced by attachOptions when normalized rows exist.
func (r *questionRepo) scanQuestions(ctx context.Context, query string, args []any) ([]Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []Question
	for rows.Next() {
		var (
			q                 Question
			options, correct  string
			explanation, note sql.NullString
			flagged           sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.Text, &options, &correct, &explanation, &note, &flagged); err != nil {
			return nil, err
		}
		q.Options = SplitField(options)
		q.Correct = SplitField(correct)
		q.Explanation = explanation.String
		q.Note = note.String
		q.Flagged = flagged.Int64 != 0
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

// attachOptions replaces the flat option lists with the normalized rows.
func (r *questionRepo) attachOptions(ctx context.Context, qs []Question) error {
	if len(qs) == 0 {
		return nil
	}

	ids := make([]any, len(qs))
	for i := range qs {
		ids[i] = qs[i].ID
	}
	query, args := builder().Select("question_id", "label", "correct").
		From(entsql.Table("question_options")).
		Where(entsql.In("question_id", ids...)).
		OrderBy("question_id", "position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	type optionSet struct {
		options, correct []string
	}
	byID := make(map[int64]*optionSet, len(qs))
	for rows.Next() {
		var (
			id      int64
			label   string
			correct int64
		)
		if err := rows.Scan(&id, &label, &correct); err != nil {
			return err
		}
		set := byID[id]
		if set == nil {
			set = &optionSet{}
			byID[id] = set
		}
		set.options = append(set.options, label)
		if correct != 0 {
			set.correct = append(set.correct, label)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range qs {
		if set, ok := byID[qs[i].ID]; ok {
			qs[i].Options = set.options
			qs[i].Correct = set.correct
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
