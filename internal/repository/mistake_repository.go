package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mistake-journal/internal/models"
)

const mistakeColumns = `id, mistake_date::text AS mistake_date, mistake_issue, context_situation,
        mentor_feedback, what_learned, plan_improve, status, created_at, updated_at`

// MistakeRepository manages persistence for mistake records.
type MistakeRepository struct {
	db *sqlx.DB
}

// NewMistakeRepository constructs a new repository.
func NewMistakeRepository(db *sqlx.DB) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// ListAll returns every record, newest first within the same date.
func (r *MistakeRepository) ListAll(ctx context.Context) ([]models.MistakeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM mistakes ORDER BY mistake_date DESC, created_at DESC`, mistakeColumns)
	records := []models.MistakeRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list mistakes: %w", err)
	}
	return records, nil
}

// Create inserts a new record and fills in the store-assigned id and timestamps.
func (r *MistakeRepository) Create(ctx context.Context, rec *models.MistakeRecord) error {
	query := `INSERT INTO mistakes (mistake_date, mistake_issue, context_situation, mentor_feedback, what_learned, plan_improve, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		rec.MistakeDate, rec.MistakeIssue, rec.ContextSituation,
		rec.MentorFeedback, rec.WhatLearned, rec.PlanImprove, rec.Status)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("create mistake: %w", err)
	}
	return nil
}

// ExistsByID reports whether a record with the given id is present.
func (r *MistakeRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM mistakes WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("check mistake exists: %w", err)
	}
	return exists, nil
}

// Update replaces every client-writable field of an existing record.
// Returns sql.ErrNoRows when the id is absent.
func (r *MistakeRepository) Update(ctx context.Context, rec *models.MistakeRecord) error {
	exists, err := r.ExistsByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}
	query := `UPDATE mistakes SET mistake_date = $1, mistake_issue = $2, context_situation = $3,
        mentor_feedback = $4, what_learned = $5, plan_improve = $6, status = $7, updated_at = now()
WHERE id = $8`
	if _, err := r.db.ExecContext(ctx, query,
		rec.MistakeDate, rec.MistakeIssue, rec.ContextSituation,
		rec.MentorFeedback, rec.WhatLearned, rec.PlanImprove, rec.Status, rec.ID); err != nil {
		return fmt.Errorf("update mistake: %w", err)
	}
	return nil
}

// Delete removes a record. Returns sql.ErrNoRows when the id is absent.
func (r *MistakeRepository) Delete(ctx context.Context, id int64) error {
	exists, err := r.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mistakes WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete mistake: %w", err)
	}
	return nil
}

// AggregateStats computes the journal-wide aggregate.
func (r *MistakeRepository) AggregateStats(ctx context.Context) (*models.Stats, error) {
	query := `SELECT COUNT(*) AS total,
        COALESCE(SUM(CASE WHEN status = 'Resolved' THEN 1 ELSE 0 END),0) AS resolved,
        COALESCE(SUM(CASE WHEN mistake_date >= CURRENT_DATE - INTERVAL '7 days' THEN 1 ELSE 0 END),0) AS recent
FROM mistakes`
	var stats models.Stats
	if err := r.db.QueryRowxContext(ctx, query).Scan(&stats.Total, &stats.Resolved, &stats.Recent); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	if stats.Total > 0 {
		stats.ProgressRate = int(math.Round(float64(stats.Resolved) / float64(stats.Total) * 100))
	}
	byStatus := []models.StatusCount{}
	if err := r.db.SelectContext(ctx, &byStatus, "SELECT status, COUNT(*) AS count FROM mistakes GROUP BY status ORDER BY status"); err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	stats.ByStatus = byStatus
	return &stats, nil
}
