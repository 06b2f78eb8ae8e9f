package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packPrefs() Preferences {
	return Preferences{
		StudyHoursPerWeek:   20,
		SessionLength:       60,
		BreakDuration:       15,
		MaxConsecutiveHours: 2,
	}
}

func TestPackDayFullyBookedProducesNothing(t *testing.T) {
	eligible := []int{6, 7, 8, 9}
	booked := map[int]bool{6: true, 7: true, 8: true, 9: true}
	remaining := map[string]int{"math": 4}

	sessions := PackDay(monday, map[string]Subject{"math": {ID: "math", Name: "Math"}}, remaining, eligible, booked, packPrefs())

	assert.Empty(t, sessions)
	assert.Equal(t, 4, remaining["math"], "remaining hours must survive an unpackable day")
}

func TestPackDayBreaksSplitLongBlocks(t *testing.T) {
	prefs := packPrefs()
	prefs.SessionLength = 180

	remaining := map[string]int{"math": 5}
	booked := map[int]bool{}

	sessions := PackDay(monday, map[string]Subject{"math": {ID: "math", Name: "Math"}}, remaining, []int{6, 7, 8, 9, 10}, booked, prefs)

	require.Len(t, sessions, 2)
	assert.Equal(t, atHour(monday, 6), sessions[0].StartTime)
	assert.Equal(t, atHour(monday, 8), sessions[0].EndTime)
	// Hour 8 is consumed by the break, so the second block starts at 9.
	assert.Equal(t, atHour(monday, 9), sessions[1].StartTime)
	assert.Equal(t, atHour(monday, 11), sessions[1].EndTime)
	assert.Equal(t, 1, remaining["math"])
}

func TestPackDayNeverExceedsMaxConsecutive(t *testing.T) {
	prefs := packPrefs()
	prefs.SessionLength = 240
	prefs.MaxConsecutiveHours = 2

	remaining := map[string]int{"math": 8}
	sessions := PackDay(monday, map[string]Subject{"math": {ID: "math"}}, remaining, []int{6, 7, 8, 9, 10, 11, 12, 13}, map[int]bool{}, prefs)

	for _, s := range sessions {
		assert.LessOrEqual(t, s.EndTime.Sub(s.StartTime), 2*time.Hour)
	}
}

func TestPackDayNoOverlappingSessions(t *testing.T) {
	remaining := map[string]int{"math": 3, "bio": 3, "art": 3}
	subjects := map[string]Subject{
		"math": {ID: "math"}, "bio": {ID: "bio"}, "art": {ID: "art"},
	}

	sessions := PackDay(monday, subjects, remaining, []int{6, 7, 8, 9, 10, 11, 12}, map[int]bool{}, packPrefs())
	require.NotEmpty(t, sessions)

	used := map[int]bool{}
	for _, s := range sessions {
		for h := s.StartTime.Hour(); h < s.EndTime.Hour(); h++ {
			assert.False(t, used[h], "hour %d packed twice", h)
			used[h] = true
		}
	}
}

func TestPackDaySkipsBookedHours(t *testing.T) {
	remaining := map[string]int{"math": 2}
	booked := map[int]bool{6: true}

	sessions := PackDay(monday, map[string]Subject{"math": {ID: "math"}}, remaining, []int{6, 7, 8, 9}, booked, packPrefs())

	require.NotEmpty(t, sessions)
	for _, s := range sessions {
		assert.GreaterOrEqual(t, s.StartTime.Hour(), 7)
	}
}

func TestPackDayPrefersSubjectWithMostRemaining(t *testing.T) {
	remaining := map[string]int{"math": 5, "art": 1}
	subjects := map[string]Subject{"math": {ID: "math"}, "art": {ID: "art"}}

	sessions := PackDay(monday, subjects, remaining, []int{6, 7, 8, 9, 10, 11}, map[int]bool{}, packPrefs())

	require.NotEmpty(t, sessions)
	assert.Equal(t, "math", sessions[0].SubjectID)
}

func TestPackDayDeterministic(t *testing.T) {
	run := func() []ProposedSession {
		remaining := map[string]int{"math": 3, "bio": 3}
		subjects := map[string]Subject{"math": {ID: "math"}, "bio": {ID: "bio"}}
		return PackDay(monday, subjects, remaining, []int{6, 7, 8, 9, 10, 11}, map[int]bool{}, packPrefs())
	}

	assert.Equal(t, run(), run())
}
