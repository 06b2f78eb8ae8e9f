package scheduler

import (
	"fmt"
	"math"
	"time"

	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

// GenerateInput is everything one schedule-generation run consumes.
type GenerateInput struct {
	StartDate   time.Time
	EndDate     time.Time
	Subjects    []Subject
	Preferences Preferences
	Booked      []BookedSlot
}

// GenerateResult carries the proposed sessions plus non-fatal diagnostics.
type GenerateResult struct {
	Sessions []ProposedSession
	// Warnings are advisory only; generation proceeded despite them.
	Warnings []string
	// RejectedSubjects lists subjects excluded for invalid attributes.
	RejectedSubjects []string
}

// Generate produces a conflict-free study schedule for the inclusive date
// range. It is a pure function of its input: no clock reads, no I/O, no
// randomness. ErrNoEligibleHours is returned when the preferences cannot
// resolve a single study hour anywhere in the horizon.
func Generate(in GenerateInput) (*GenerateResult, error) {
	result := &GenerateResult{}

	start := civilDate(in.StartDate)
	end := civilDate(in.EndDate)
	if end.Before(start) || len(in.Subjects) == 0 {
		return result, nil
	}

	prefs := in.Preferences.Normalize()
	days := int(end.Sub(start).Hours()/24) + 1

	if !horizonHasEligibleHours(start, days, prefs) {
		return nil, appErrors.Clone(appErrors.ErrNoEligibleHours,
			"study-time preferences leave no eligible hours in the requested range")
	}

	totalHours := prorateHours(prefs.StudyHoursPerWeek, days)
	if totalHours <= 0 {
		return result, nil
	}

	weights := make(map[string]float64, len(in.Subjects))
	caps := make(map[string]int, len(in.Subjects))
	subjectsByID := make(map[string]Subject, len(in.Subjects))
	workloadSum := 0
	for _, s := range in.Subjects {
		w, err := SubjectWeight(s, start)
		if err != nil {
			result.RejectedSubjects = append(result.RejectedSubjects, s.ID)
			continue
		}
		weights[s.ID] = w
		caps[s.ID] = prorateHours(s.Workload, days)
		subjectsByID[s.ID] = s
		workloadSum += s.Workload
	}
	if len(weights) == 0 {
		return result, nil
	}

	if workloadSum > prefs.StudyHoursPerWeek {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"combined subject workload (%dh/week) exceeds the study budget (%dh/week); hours are split proportionally",
			workloadSum, prefs.StudyHoursPerWeek))
	}

	remaining := AllocateHours(weights, caps, totalHours)

	bookedByDay := indexBookedHours(in.Booked)

	for day := 0; day < days; day++ {
		if poolEmpty(remaining) {
			break
		}
		date := start.AddDate(0, 0, day)
		hours := ResolveHours(date, prefs)
		if len(hours) == 0 {
			continue
		}

		booked := make(map[int]bool)
		for h := range bookedByDay[date] {
			booked[h] = true
		}

		sessions := PackDay(date, subjectsByID, remaining, hours, booked, prefs)
		result.Sessions = append(result.Sessions, sessions...)
	}

	return result, nil
}

// horizonHasEligibleHours reports whether any date in the range resolves
// at least one study hour.
func horizonHasEligibleHours(start time.Time, days int, prefs Preferences) bool {
	for day := 0; day < days; day++ {
		if len(ResolveHours(start.AddDate(0, 0, day), prefs)) > 0 {
			return true
		}
	}
	return false
}

// prorateHours scales a weekly figure linearly to the horizon length.
func prorateHours(weekly, days int) int {
	if weekly <= 0 || days <= 0 {
		return 0
	}
	return int(math.Round(float64(weekly) * float64(days) / 7))
}

// indexBookedHours buckets booked slots into per-day hour sets. A slot
// covers every hour its interval touches on the hour grid.
func indexBookedHours(slots []BookedSlot) map[time.Time]map[int]bool {
	index := make(map[time.Time]map[int]bool)
	for _, slot := range slots {
		if !slot.EndTime.After(slot.StartTime) {
			continue
		}
		st := slot.StartTime
		cursor := time.Date(st.Year(), st.Month(), st.Day(), st.Hour(), 0, 0, 0, st.Location())
		for cursor.Before(slot.EndTime) {
			day := civilDate(cursor)
			if index[day] == nil {
				index[day] = make(map[int]bool)
			}
			index[day][cursor.Hour()] = true
			cursor = cursor.Add(time.Hour)
		}
	}
	return index
}

func poolEmpty(remaining map[string]int) bool {
	for _, hours := range remaining {
		if hours > 0 {
			return false
		}
	}
	return true
}
