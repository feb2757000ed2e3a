package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// FieldSep joins list-valued fields in the flat questions columns and in CSV.
const FieldSep = ";"

// SplitField splits a flat list column into its items.
func SplitField(s string) []string {
	return strings.Split(s, FieldSep)
}

// JoinField joins items into a flat list column.
func JoinField(items []string) string {
	return strings.Join(items, FieldSep)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertOptions writes one question_options row per option, in display order.
func insertOptions(ctx context.Context, ex execer, questionID int64, options, correct []string) error {
	if len(options) == 0 {
		return nil
	}

	isCorrect := make(map[string]bool, len(correct))
	for _, c := range correct {
		isCorrect[c] = true
	}

	ins := builder().Insert("question_options").Columns("question_id", "position", "label", "correct")
	for pos, opt := range options {
		ins = ins.Values(questionID, pos, opt, boolInt(isCorrect[opt]))
	}
	query, args := ins.Query()
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert options: %w", err)
	}
	return nil
}

// backfillOptions derives question_options rows from the flat columns for
// questions that have none, e.g. rows written by tools unaware of the table.
func (s *Store) backfillOptions(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, options, correct_answer FROM questions
		WHERE id NOT IN (SELECT DISTINCT question_id FROM question_options)`)
	if err != nil {
		return err
	}

	type pending struct {
		id               int64
		options, correct string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.options, &p.correct); err != nil {
			rows.Close()
			return err
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(todo) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range todo {
		if err := insertOptions(ctx, tx, p.id, SplitField(p.options), SplitField(p.correct)); err != nil {
			return fmt.Errorf("question %d: %w", p.id, err)
		}
	}
	return tx.Commit()
}
