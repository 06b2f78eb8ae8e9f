package scheduler

import (
	"math"
	"sort"
)

// AllocateHours splits totalHours across subjects proportionally to their
// weights: floor division first, then the shortfall is handed out one hour
// at a time to the heaviest subjects still under their cap (ties broken by
// subject id ascending). A cap entry limits a subject's share; ids absent
// from caps are uncapped. The result sums to totalHours unless the caps
// collectively hold less than that.
func AllocateHours(weights map[string]float64, caps map[string]int, totalHours int) map[string]int {
	alloc := make(map[string]int, len(weights))
	if totalHours <= 0 || len(weights) == 0 {
		return alloc
	}

	ids := make([]string, 0, len(weights))
	totalWeight := 0.0
	for id, w := range weights {
		ids = append(ids, id)
		totalWeight += w
	}
	sort.Strings(ids)

	if totalWeight <= 0 {
		return allocateEvenly(ids, caps, totalHours)
	}

	allocated := 0
	for _, id := range ids {
		hours := int(math.Floor(weights[id] / totalWeight * float64(totalHours)))
		if c, ok := caps[id]; ok && hours > c {
			hours = c
		}
		if hours < 0 {
			hours = 0
		}
		alloc[id] = hours
		allocated += hours
	}

	// Floor rounding cannot overshoot, but guard anyway: trim from the
	// lightest subjects first.
	if allocated > totalHours {
		byWeightAsc := append([]string(nil), ids...)
		sort.SliceStable(byWeightAsc, func(i, j int) bool {
			return weights[byWeightAsc[i]] < weights[byWeightAsc[j]]
		})
		for allocated > totalHours {
			trimmed := false
			for _, id := range byWeightAsc {
				if allocated == totalHours {
					break
				}
				if alloc[id] > 0 {
					alloc[id]--
					allocated--
					trimmed = true
				}
			}
			if !trimmed {
				break
			}
		}
	}

	byWeightDesc := append([]string(nil), ids...)
	sort.SliceStable(byWeightDesc, func(i, j int) bool {
		if weights[byWeightDesc[i]] == weights[byWeightDesc[j]] {
			return byWeightDesc[i] < byWeightDesc[j]
		}
		return weights[byWeightDesc[i]] > weights[byWeightDesc[j]]
	})

	for allocated < totalHours {
		progressed := false
		for _, id := range byWeightDesc {
			if allocated == totalHours {
				break
			}
			if c, ok := caps[id]; ok && alloc[id] >= c {
				continue
			}
			alloc[id]++
			allocated++
			progressed = true
		}
		if !progressed {
			// Every subject is at its cap; the budget cannot be met.
			break
		}
	}

	return alloc
}

// allocateEvenly handles the degenerate all-zero-weight case: an even
// integer split with the remainder going to the first subjects by id.
func allocateEvenly(ids []string, caps map[string]int, totalHours int) map[string]int {
	alloc := make(map[string]int, len(ids))
	base := totalHours / len(ids)
	rem := totalHours % len(ids)

	allocated := 0
	for i, id := range ids {
		hours := base
		if i < rem {
			hours++
		}
		if c, ok := caps[id]; ok && hours > c {
			hours = c
		}
		alloc[id] = hours
		allocated += hours
	}

	for allocated < totalHours {
		progressed := false
		for _, id := range ids {
			if allocated == totalHours {
				break
			}
			if c, ok := caps[id]; ok && alloc[id] >= c {
				continue
			}
			alloc[id]++
			allocated++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	return alloc
}
