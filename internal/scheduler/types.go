package scheduler

import "time"

// Subject carries the read-only subject attributes the generator consumes.
// Records are supplied by the caller and never mutated here.
type Subject struct {
	ID         string
	Name       string
	Priority   int // 1-5
	Workload   int // required hours per week
	Difficulty int // 1-5, 0 when unset
	ExamDate   *time.Time
	Color      string
}

// Preferences captures the study-time settings that shape a generated week.
// All fields are explicit; callers apply defaults before invoking the core.
type Preferences struct {
	StudyHoursPerWeek   int
	Morning             bool
	Afternoon           bool
	Evening             bool
	Night               bool
	SessionLength       int // minutes
	BreakDuration       int // minutes
	MaxConsecutiveHours int
	WeekendStudy        bool
}

// ProposedSession is one generated study block. Boundaries snap to the
// hour grid.
type ProposedSession struct {
	SubjectID   string
	SubjectName string
	StartTime   time.Time
	EndTime     time.Time
	Color       string
}

// BookedSlot describes an existing commitment the generator must not
// overlap, either a persisted session or an external constraint block.
type BookedSlot struct {
	StartTime time.Time
	EndTime   time.Time
}

// DefaultPreferences mirror the documented preference fallbacks.
const (
	DefaultSessionLength       = 60
	DefaultBreakDuration       = 15
	DefaultMaxConsecutiveHours = 2
)

// Normalize fills zero-valued numeric preferences with their defaults.
func (p Preferences) Normalize() Preferences {
	if p.SessionLength <= 0 {
		p.SessionLength = DefaultSessionLength
	}
	if p.BreakDuration < 0 {
		p.BreakDuration = DefaultBreakDuration
	}
	if p.MaxConsecutiveHours <= 0 {
		p.MaxConsecutiveHours = DefaultMaxConsecutiveHours
	}
	return p
}
