package models

import "time"

// WeeklyProgress compares planned study hours against completed hours
// for one subject inside a week.
type WeeklyProgress struct {
	SubjectID      string  `db:"subject_id" json:"subject_id"`
	SubjectName    string  `db:"subject_name" json:"subject_name"`
	PlannedHours   float64 `db:"planned_hours" json:"planned_hours"`
	CompletedHours float64 `db:"completed_hours" json:"completed_hours"`
	MissedHours    float64 `db:"missed_hours" json:"missed_hours"`
}

// StudyWeekSummary aggregates one week of study activity for a user.
type StudyWeekSummary struct {
	WeekStart      time.Time        `json:"week_start"`
	WeekEnd        time.Time        `json:"week_end"`
	PlannedHours   float64          `json:"planned_hours"`
	CompletedHours float64          `json:"completed_hours"`
	CompletionRate float64          `json:"completion_rate"`
	BySubject      []WeeklyProgress `json:"by_subject"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// ProductivitySummary aggregates self-reported session quality over a
// trailing window. Trend compares the window against the one before it.
type ProductivitySummary struct {
	WindowDays    int        `json:"window_days"`
	AverageRating float64    `db:"avg_rating" json:"average_rating"`
	RatedSessions int        `db:"rated_sessions" json:"rated_sessions"`
	BestHour      *int       `db:"best_hour" json:"best_hour,omitempty"`
	Trend         string     `json:"trend"`
	GeneratedAt   time.Time  `json:"generated_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// MissedSubjectCount is the number of missed sessions for one subject
// inside a trailing window.
type MissedSubjectCount struct {
	SubjectID   string  `db:"subject_id" json:"subject_id"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	Missed      int     `db:"missed" json:"missed"`
	MissedHours float64 `db:"missed_hours" json:"missed_hours"`
}

// MissedSummary groups missed sessions by subject over a trailing window.
type MissedSummary struct {
	WindowDays  int                  `json:"window_days"`
	Total       int                  `json:"total"`
	BySubject   []MissedSubjectCount `json:"by_subject"`
	GeneratedAt time.Time            `json:"generated_at"`
}
