package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhisek/flashquiz/internal/progress"
)

// AttemptRepo is the append-only log of graded answers.
// It implements progress.AttemptRecorder.
type AttemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ progress.AttemptRecorder = (*AttemptRepo)(nil)

// Stats aggregates the attempt log.
type Stats struct {
	Attempts int
	Correct  int
	Sessions int
}

// Accuracy returns Correct/Attempts in [0, 1].
func (s Stats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// StoredAttempt is an attempt as read back from the log.
type StoredAttempt struct {
	Sequence int64
	progress.Attempt
}

// RecordAttempt appends a to the log.
func (r *AttemptRepo) RecordAttempt(ctx context.Context, a progress.Attempt) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	correct := 0
	if a.Correct {
		correct = 1
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO attempts (sequence, session_id, question_id, chosen, correct, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seq, a.SessionID, a.QuestionID, a.Chosen, correct, a.AnsweredAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// Stats summarizes every attempt ever recorded.
func (r *AttemptRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0), COUNT(DISTINCT session_id) FROM attempts`,
	).Scan(&s.Attempts, &s.Correct, &s.Sessions)
	if err != nil {
		return Stats{}, fmt.Errorf("query attempt stats: %w", err)
	}
	return s, nil
}

// Recent returns the last limit attempts, newest first.
func (r *AttemptRepo) Recent(ctx context.Context, limit int) ([]StoredAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, question_id, chosen, correct, answered_at
		 FROM attempts ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []StoredAttempt
	for rows.Next() {
		var (
			a        StoredAttempt
			correct  int
			answered int64
		)
		if err := rows.Scan(&a.Sequence, &a.SessionID, &a.QuestionID, &a.Chosen, &correct, &answered); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Correct = correct == 1
		a.AnsweredAt = time.UnixMilli(answered).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
