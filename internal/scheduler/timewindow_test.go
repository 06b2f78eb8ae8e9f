package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday   = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
)

func TestResolveHoursMorningOnly(t *testing.T) {
	hours := ResolveHours(monday, Preferences{Morning: true})
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11}, hours)
}

func TestResolveHoursNightWrapsMidnight(t *testing.T) {
	hours := ResolveHours(monday, Preferences{Night: true})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 22, 23}, hours)
}

func TestResolveHoursCombinedRangesAreSortedAndDeduplicated(t *testing.T) {
	hours := ResolveHours(monday, Preferences{Afternoon: true, Evening: true})
	assert.Equal(t, []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21}, hours)
}

func TestResolveHoursWeekendDisabled(t *testing.T) {
	prefs := Preferences{Morning: true, Afternoon: true, WeekendStudy: false}
	assert.Empty(t, ResolveHours(saturday, prefs))

	prefs.WeekendStudy = true
	assert.NotEmpty(t, ResolveHours(saturday, prefs))
}

func TestResolveHoursNoFlagsEnabled(t *testing.T) {
	assert.Empty(t, ResolveHours(monday, Preferences{WeekendStudy: true}))
}

func TestResolveHoursIdempotent(t *testing.T) {
	prefs := Preferences{Morning: true, Night: true, WeekendStudy: true}
	first := ResolveHours(monday, prefs)
	second := ResolveHours(monday, prefs)
	require.Equal(t, first, second)
}
