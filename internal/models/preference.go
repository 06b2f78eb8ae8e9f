package models

import "time"

// StudyPreference holds a user's study-time settings. Exactly one row
// exists per user; defaults are applied on first read.
type StudyPreference struct {
	ID                  string    `db:"id" json:"id"`
	UserID              string    `db:"user_id" json:"user_id"`
	StudyHoursPerWeek   int       `db:"study_hours_per_week" json:"study_hours_per_week"`
	Morning             bool      `db:"morning" json:"morning"`
	Afternoon           bool      `db:"afternoon" json:"afternoon"`
	Evening             bool      `db:"evening" json:"evening"`
	Night               bool      `db:"night" json:"night"`
	SessionLength       int       `db:"session_length" json:"session_length"`
	BreakDuration       int       `db:"break_duration" json:"break_duration"`
	MaxConsecutiveHours int       `db:"max_consecutive_hours" json:"max_consecutive_hours"`
	WeekendStudy        bool      `db:"weekend_study" json:"weekend_study"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
