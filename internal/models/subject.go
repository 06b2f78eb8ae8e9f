package models

import "time"

// Subject represents a subject a user studies, with the attributes that
// drive schedule generation.
type Subject struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Name       string     `db:"name" json:"name"`
	Priority   int        `db:"priority" json:"priority"`
	Workload   int        `db:"workload" json:"workload"`
	Difficulty int        `db:"difficulty" json:"difficulty"`
	ExamDate   *time.Time `db:"exam_date" json:"exam_date,omitempty"`
	Color      string     `db:"color" json:"color"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search    string
	HasExam   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
