package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhisek/flashquiz/internal/progress"
)

// ProgressRepo persists the correct-set in the correct_answers table.
// It implements progress.Store.
type ProgressRepo struct {
	db *sql.DB
}

var _ progress.Store = (*ProgressRepo)(nil)

// Load returns every stored question id.
func (r *ProgressRepo) Load(ctx context.Context) (progress.IDSet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT question_id FROM correct_answers`)
	if err != nil {
		return progress.IDSet{}, fmt.Errorf("query correct answers: %w", err)
	}
	defer rows.Close()

	ids := progress.IDSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return progress.IDSet{}, fmt.Errorf("%w: scan correct answer: %w", progress.ErrStorageCorruption, err)
		}
		ids.Add(id)
	}
	if err := rows.Err(); err != nil {
		return progress.IDSet{}, fmt.Errorf("iterate correct answers: %w", err)
	}
	return ids, nil
}

// Save replaces the stored set with ids in a single transaction. Rows for ids
// already present keep their original answered_at.
func (r *ProgressRepo) Save(ctx context.Context, ids progress.IDSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS keep_ids (question_id TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM keep_ids`); err != nil {
		return fmt.Errorf("clear temp table: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, id := range ids.Sorted() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO keep_ids (question_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("stage %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO correct_answers (question_id, answered_at) VALUES (?, ?)`, id, now,
		); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM correct_answers WHERE question_id NOT IN (SELECT question_id FROM keep_ids)`,
	); err != nil {
		return fmt.Errorf("prune correct answers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Reset deletes every stored id. Attempt history is kept.
func (r *ProgressRepo) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM correct_answers`); err != nil {
		return fmt.Errorf("reset correct answers: %w", err)
	}
	return nil
}
