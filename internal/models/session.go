package models

import "time"

// SessionStatus represents the lifecycle state of a study session.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"
	SessionCompleted SessionStatus = "completed"
	SessionMissed    SessionStatus = "missed"
)

// StudySession is one scheduled study block persisted in the
// study_sessions table.
type StudySession struct {
	ID                 string        `db:"id" json:"id"`
	UserID             string        `db:"user_id" json:"user_id"`
	SubjectID          string        `db:"subject_id" json:"subject_id"`
	SubjectName        string        `db:"subject_name" json:"subject_name"`
	StartTime          time.Time     `db:"start_time" json:"start_time"`
	EndTime            time.Time     `db:"end_time" json:"end_time"`
	Status             SessionStatus `db:"status" json:"status"`
	ProductivityRating *int          `db:"productivity_rating" json:"productivity_rating,omitempty"`
	Notes              string        `db:"notes" json:"notes"`
	Color              string        `db:"color" json:"color"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionFilter describes query params for listing sessions.
type SessionFilter struct {
	SubjectID string
	Status    SessionStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
