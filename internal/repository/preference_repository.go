package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

// PreferenceRepository handles the single study-preference row per user.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new repository instance.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindByUser returns the user's preference row; sql.ErrNoRows when absent.
func (r *PreferenceRepository) FindByUser(ctx context.Context, userID string) (*models.StudyPreference, error) {
	const query = `SELECT id, user_id, study_hours_per_week, morning, afternoon, evening, night, session_length, break_duration, max_consecutive_hours, weekend_study, created_at, updated_at FROM study_preferences WHERE user_id = $1 LIMIT 1`
	var pref models.StudyPreference
	if err := r.db.GetContext(ctx, &pref, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return &pref, nil
}

// Upsert writes the full settings block, inserting on first save.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *models.StudyPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now

	const query = `INSERT INTO study_preferences (id, user_id, study_hours_per_week, morning, afternoon, evening, night, session_length, break_duration, max_consecutive_hours, weekend_study, created_at, updated_at)
VALUES (:id, :user_id, :study_hours_per_week, :morning, :afternoon, :evening, :night, :session_length, :break_duration, :max_consecutive_hours, :weekend_study, :created_at, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET study_hours_per_week = EXCLUDED.study_hours_per_week, morning = EXCLUDED.morning, afternoon = EXCLUDED.afternoon, evening = EXCLUDED.evening, night = EXCLUDED.night, session_length = EXCLUDED.session_length, break_duration = EXCLUDED.break_duration, max_consecutive_hours = EXCLUDED.max_consecutive_hours, weekend_study = EXCLUDED.weekend_study, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
