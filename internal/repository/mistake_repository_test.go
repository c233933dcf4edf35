package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mistake-journal/internal/models"
)

func newMistakeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func mistakeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "mistake_date", "mistake_issue", "context_situation",
		"mentor_feedback", "what_learned", "plan_improve", "status", "created_at", "updated_at",
	})
}

func TestMistakeRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	rows := mistakeRows().
		AddRow(2, "2026-08-30", "slow query", "reports page", "", "add an index", "measure first", "In progress", time.Now(), time.Now()).
		AddRow(1, "2026-08-20", "bad input handling", "signup form", "trim early", "validate at the edge", "add guards", "Resolved", time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM mistakes ORDER BY mistake_date DESC, created_at DESC").
		WillReturnRows(rows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "2026-08-30", records[0].MistakeDate)
	assert.Equal(t, models.StatusResolved, records[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO mistakes").
		WithArgs("2026-08-30", "slow query", "reports page", "", "add an index", "measure first", models.StatusInProgress).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	rec := &models.MistakeRecord{
		MistakeDate:      "2026-08-30",
		MistakeIssue:     "slow query",
		ContextSituation: "reports page",
		WhatLearned:      "add an index",
		PlanImprove:      "measure first",
		Status:           models.StatusInProgress,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	assert.Equal(t, int64(7), rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM mistakes WHERE id = $1)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := &models.MistakeRecord{ID: 99, MistakeDate: "2026-08-30", Status: models.StatusOngoing}
	err := repo.Update(context.Background(), rec)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM mistakes WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE mistakes SET").
		WithArgs("2026-08-30", "slow query", "reports page", "", "add an index", "measure first", models.StatusResolved, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.MistakeRecord{
		ID:               3,
		MistakeDate:      "2026-08-30",
		MistakeIssue:     "slow query",
		ContextSituation: "reports page",
		WhatLearned:      "add an index",
		PlanImprove:      "measure first",
		Status:           models.StatusResolved,
	}
	require.NoError(t, repo.Update(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM mistakes WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM mistakes WHERE id").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM mistakes WHERE id = $1)")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	assert.ErrorIs(t, repo.Delete(context.Background(), 42), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryAggregateStats(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total").
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "recent"}).AddRow(3, 1, 2))
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS count FROM mistakes GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("In progress", 2).
			AddRow("Resolved", 1))

	stats, err := repo.AggregateStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 33, stats.ProgressRate)
	assert.Equal(t, 2, stats.Recent)
	require.Len(t, stats.ByStatus, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMistakeRepositoryAggregateStatsEmpty(t *testing.T) {
	db, mock, cleanup := newMistakeMock(t)
	defer cleanup()
	repo := NewMistakeRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total").
		WillReturnRows(sqlmock.NewRows([]string{"total", "resolved", "recent"}).AddRow(0, 0, 0))
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS count FROM mistakes GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))

	stats, err := repo.AggregateStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.ProgressRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
