package models

import "time"

// ConstraintKind distinguishes recurring commitment types.
type ConstraintKind string

const (
	ConstraintBusy  ConstraintKind = "busy"
	ConstraintClass ConstraintKind = "class"
)

// TimeConstraint is a recurring weekly block the generator must not
// schedule over, e.g. a class or a standing commitment.
type TimeConstraint struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Kind      ConstraintKind `db:"kind" json:"kind"`
	Label     string         `db:"label" json:"label"`
	DayOfWeek int            `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartHour int            `db:"start_hour" json:"start_hour"`
	EndHour   int            `db:"end_hour" json:"end_hour"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
