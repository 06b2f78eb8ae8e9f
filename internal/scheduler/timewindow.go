package scheduler

import (
	"sort"
	"time"
)

// hourRange is a half-open [Start, End) range of clock hours. Ranges where
// Start > End wrap past midnight.
type hourRange struct {
	Start int
	End   int
}

var timeOfDayRanges = map[string]hourRange{
	"morning":   {Start: 6, End: 12},
	"afternoon": {Start: 12, End: 17},
	"evening":   {Start: 17, End: 22},
	"night":     {Start: 22, End: 6},
}

// ResolveHours returns the sorted, deduplicated clock hours eligible for
// study on the given date. A weekend date with weekend study disabled
// resolves to no hours at all, which callers must treat as "skip day".
func ResolveHours(date time.Time, prefs Preferences) []int {
	if isWeekend(date) && !prefs.WeekendStudy {
		return nil
	}

	enabled := map[string]bool{
		"morning":   prefs.Morning,
		"afternoon": prefs.Afternoon,
		"evening":   prefs.Evening,
		"night":     prefs.Night,
	}

	seen := make(map[int]bool, 24)
	for name, r := range timeOfDayRanges {
		if !enabled[name] {
			continue
		}
		if r.Start < r.End {
			for h := r.Start; h < r.End; h++ {
				seen[h] = true
			}
			continue
		}
		// Overnight range contributes both sides of midnight.
		for h := r.Start; h < 24; h++ {
			seen[h] = true
		}
		for h := 0; h < r.End; h++ {
			seen[h] = true
		}
	}

	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
