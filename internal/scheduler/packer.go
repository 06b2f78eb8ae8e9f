package scheduler

import (
	"sort"
	"time"
)

// PackDay fills one calendar day with non-overlapping session blocks.
// remaining maps subject id to hours still owed for the horizon and is
// depleted in place; booked holds hour-of-day values already consumed by
// existing commitments and is extended with every hour this call packs.
// The block sequence is fully deterministic for identical inputs.
func PackDay(
	date time.Time,
	subjects map[string]Subject,
	remaining map[string]int,
	eligibleHours []int,
	booked map[int]bool,
	prefs Preferences,
) []ProposedSession {
	if len(eligibleHours) == 0 || len(remaining) == 0 {
		return nil
	}

	prefs = prefs.Normalize()
	sessionCap := prefs.SessionLength / 60
	if sessionCap < 1 {
		sessionCap = 1
	}

	eligible := make(map[int]bool, len(eligibleHours))
	for _, h := range eligibleHours {
		eligible[h] = true
	}

	// Hours blocked for new block starts by an inserted break.
	breakBlocked := make(map[int]bool)

	var sessions []ProposedSession
	for {
		sid := nextSubject(remaining)
		if sid == "" {
			break
		}

		packed := false
		for _, id := range candidateOrder(remaining) {
			if remaining[id] <= 0 {
				continue
			}
			start, ok := earliestFreeHour(eligibleHours, booked, breakBlocked)
			if !ok {
				break
			}

			maxLen := blockLimit(remaining[id], prefs.MaxConsecutiveHours, sessionCap)
			length := 0
			for h := start; length < maxLen && eligible[h] && !booked[h]; h++ {
				booked[h] = true
				length++
			}
			if length == 0 {
				continue
			}

			subject := subjects[id]
			sessions = append(sessions, ProposedSession{
				SubjectID:   id,
				SubjectName: subject.Name,
				StartTime:   atHour(date, start),
				EndTime:     atHour(date, start+length),
				Color:       subject.Color,
			})
			remaining[id] -= length

			// The break after a closed block makes the hours it spills
			// into unavailable for new block starts.
			for b := 0; b*60 < prefs.BreakDuration; b++ {
				breakBlocked[start+length+b] = true
			}
			packed = true
			break
		}
		if !packed {
			break
		}
	}

	return sessions
}

// candidateOrder ranks subjects by remaining hours descending with subject
// id ascending as the tie-break.
func candidateOrder(remaining map[string]int) []string {
	ids := make([]string, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if remaining[ids[i]] == remaining[ids[j]] {
			return ids[i] < ids[j]
		}
		return remaining[ids[i]] > remaining[ids[j]]
	})
	return ids
}

func nextSubject(remaining map[string]int) string {
	for _, id := range candidateOrder(remaining) {
		if remaining[id] > 0 {
			return id
		}
	}
	return ""
}

func earliestFreeHour(eligibleHours []int, booked, breakBlocked map[int]bool) (int, bool) {
	for _, h := range eligibleHours {
		if !booked[h] && !breakBlocked[h] {
			return h, true
		}
	}
	return 0, false
}

func blockLimit(remaining, maxConsecutive, sessionCap int) int {
	limit := remaining
	if maxConsecutive < limit {
		limit = maxConsecutive
	}
	if sessionCap < limit {
		limit = sessionCap
	}
	return limit
}

func atHour(date time.Time, hour int) time.Time {
	day := civilDate(date)
	return day.Add(time.Duration(hour) * time.Hour)
}
