package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// resultRepo implements ResultRepo. A row in results means "still wrong".
type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Record(ctx context.Context, questionID int64, correct bool) error {
	var (
		query string
		args  []any
	)
	if correct {
		query, args = builder().Delete("results").
			Where(entsql.EQ("question_id", questionID)).
			Query()
	} else {
		query, args = builder().Insert("results").
			Columns("question_id", "correct").
			Values(questionID, 0).
			OnConflict(
				entsql.ConflictColumns("question_id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record result for question %d: %w", questionID, err)
	}
	return nil
}

func (r *resultRepo) Missed(ctx context.Context) ([]int64, error) {
	query, args := builder().Select("question_id").
		From(entsql.Table("results")).
		Where(entsql.EQ("correct", 0)).
		OrderBy("question_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select missed: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan missed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *resultRepo) Clear(ctx context.Context) (int64, error) {
	query, args := builder().Delete("results").Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear results: %w", err)
	}
	return res.RowsAffected()
}
