package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

// AnalyticsRepository aggregates study activity straight from SQL.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new repository instance.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// WeeklyProgress returns planned/completed/missed hours per subject for
// sessions starting inside [weekStart, weekEnd).
func (r *AnalyticsRepository) WeeklyProgress(ctx context.Context, userID string, weekStart, weekEnd time.Time) ([]models.WeeklyProgress, error) {
	const query = `
SELECT s.subject_id,
       s.subject_name,
       COALESCE(SUM(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600), 0) AS planned_hours,
       COALESCE(SUM(CASE WHEN s.status = 'completed' THEN EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600 ELSE 0 END), 0) AS completed_hours,
       COALESCE(SUM(CASE WHEN s.status = 'missed' THEN EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600 ELSE 0 END), 0) AS missed_hours
FROM study_sessions s
WHERE s.user_id = $1 AND s.start_time >= $2 AND s.start_time < $3
GROUP BY s.subject_id, s.subject_name
ORDER BY planned_hours DESC, s.subject_id`
	var rows []models.WeeklyProgress
	if err := r.db.SelectContext(ctx, &rows, query, userID, weekStart, weekEnd); err != nil {
		return nil, fmt.Errorf("weekly progress: %w", err)
	}
	return rows, nil
}

// ProductivityWindow averages self-reported ratings inside [since, until)
// and finds the hour of day with the best average rating.
func (r *AnalyticsRepository) ProductivityWindow(ctx context.Context, userID string, since, until time.Time) (*models.ProductivitySummary, error) {
	const query = `
SELECT COALESCE(AVG(productivity_rating), 0) AS avg_rating,
       COUNT(productivity_rating) AS rated_sessions
FROM study_sessions
WHERE user_id = $1 AND start_time >= $2 AND start_time < $3 AND productivity_rating IS NOT NULL`
	var summary models.ProductivitySummary
	if err := r.db.GetContext(ctx, &summary, query, userID, since, until); err != nil {
		return nil, fmt.Errorf("productivity window: %w", err)
	}

	const bestQuery = `
SELECT EXTRACT(HOUR FROM start_time)::int AS best_hour
FROM study_sessions
WHERE user_id = $1 AND start_time >= $2 AND start_time < $3 AND productivity_rating IS NOT NULL
GROUP BY best_hour
ORDER BY AVG(productivity_rating) DESC, best_hour
LIMIT 1`
	var bestHour int
	err := r.db.GetContext(ctx, &bestHour, bestQuery, userID, since, until)
	switch {
	case err == sql.ErrNoRows:
		// No rated sessions in the window.
	case err != nil:
		return nil, fmt.Errorf("best study hour: %w", err)
	default:
		summary.BestHour = &bestHour
	}

	return &summary, nil
}

// MissedBySubject counts missed sessions per subject since the cutoff.
func (r *AnalyticsRepository) MissedBySubject(ctx context.Context, userID string, since time.Time) ([]models.MissedSubjectCount, error) {
	const query = `
SELECT subject_id,
       subject_name,
       COUNT(*) AS missed,
       COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600), 0) AS missed_hours
FROM study_sessions
WHERE user_id = $1 AND status = 'missed' AND start_time >= $2
GROUP BY subject_id, subject_name
ORDER BY missed DESC, subject_id`
	var rows []models.MissedSubjectCount
	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("missed by subject: %w", err)
	}
	return rows, nil
}
