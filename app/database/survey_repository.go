package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SurveyRepo stores visitor survey feedback
type SurveyRepo struct {
	db *DB
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

func (r *SurveyRepo) InsertFeedback(ctx context.Context, feedback SurveyFeedback) (int64, error) {
	var id int64

	submittedAt := feedback.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	var objectID sql.NullInt64
	if feedback.ObjectID != nil {
		objectID = sql.NullInt64{Int64: *feedback.ObjectID, Valid: true}
	}

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO survey_feedback (email, preference, submitted_at, object_id)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, feedback.Email, feedback.Preference, submittedAt.UTC().Format(time.RFC3339), objectID).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *SurveyRepo) GetFeedbackCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM survey_feedback").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feedback count: %w", err)
	}
	return count, nil
}

// ListRecentFeedback returns the newest submissions first
func (r *SurveyRepo) ListRecentFeedback(ctx context.Context, limit int) ([]SurveyFeedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, preference, submitted_at, object_id
		FROM survey_feedback
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	feedback := []SurveyFeedback{}
	for rows.Next() {
		var (
			item        SurveyFeedback
			submittedAt string
		)
		if err := rows.Scan(&item.ID, &item.Email, &item.Preference, &submittedAt, &item.ObjectID); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		item.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid submitted_at %q: %w", submittedAt, err)
		}
		feedback = append(feedback, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return feedback, nil
}
