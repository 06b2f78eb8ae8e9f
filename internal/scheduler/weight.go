package scheduler

import (
	"fmt"
	"time"

	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

// SubjectWeight derives the scheduling importance of a subject relative to
// the reference date (normally the horizon start). Priority sets the base,
// difficulty multiplies it, and an upcoming exam compounds a further
// multiplicative boost. A priority outside 1-5 rejects the subject.
func SubjectWeight(s Subject, ref time.Time) (float64, error) {
	if s.Priority < 1 || s.Priority > 5 {
		return 0, appErrors.Clone(appErrors.ErrInvalidSubject,
			fmt.Sprintf("subject %s has priority %d outside 1-5", s.ID, s.Priority))
	}

	weight := float64(s.Priority) * 2

	if s.Difficulty >= 1 && s.Difficulty <= 5 {
		weight *= float64(s.Difficulty)
	}

	weight *= examBoost(s.ExamDate, ref)
	return weight, nil
}

// examBoost returns the exam-proximity multiplier. Exams already past, or
// subjects without one, contribute no boost.
func examBoost(examDate *time.Time, ref time.Time) float64 {
	if examDate == nil {
		return 1
	}
	days := daysUntil(*examDate, ref)
	switch {
	case days < 0:
		return 1
	case days < 7:
		return 2.0
	case days < 14:
		return 1.5
	case days < 30:
		return 1.2
	default:
		return 1
	}
}

func daysUntil(target, ref time.Time) int {
	t := civilDate(target)
	r := civilDate(ref)
	return int(t.Sub(r).Hours() / 24)
}

// civilDate truncates a timestamp to midnight of its calendar day.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
