package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func sessionRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "subject_id", "subject_name", "start_time", "end_time", "status", "productivity_rating", "notes", "color", "created_at", "updated_at"}).
		AddRow("s1", "u1", "sub1", "Math", now, now.Add(time.Hour), string(models.SessionPlanned), nil, "", "#336699", now, now)
}

func TestListSessions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + sessionColumns + " FROM study_sessions WHERE user_id = $1 ORDER BY start_time ASC LIMIT 50 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(sessionRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM study_sessions WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sessions, total, err := repo.List(context.Background(), "u1", models.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessionsStatusFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("AND status = $2")).
		WithArgs("u1", string(models.SessionMissed)).
		WillReturnRows(sessionRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("u1", string(models.SessionMissed)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), "u1", models.SessionFilter{Status: models.SessionMissed})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO study_sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO study_sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)

	now := time.Now()
	sessions := []models.StudySession{
		{UserID: "u1", SubjectID: "sub1", SubjectName: "Math", StartTime: now, EndTime: now.Add(time.Hour)},
		{UserID: "u1", SubjectID: "sub2", SubjectName: "Bio", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, sessions))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, sessions[0].ID)
	assert.Equal(t, models.SessionPlanned, sessions[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePlannedFromWithTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	cutoff := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM study_sessions WHERE user_id = $1 AND status = $2 AND start_time >= $3")).
		WithArgs("u1", string(models.SessionPlanned), cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.DeletePlannedFromWithTx(context.Background(), tx, "u1", cutoff))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkMissedBefore(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE study_sessions SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.MarkMissedBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
