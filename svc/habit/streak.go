package habit

import (
	"slices"
	"time"
)

// day truncates t to midnight UTC so streak arithmetic works in whole days.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// computeStreaks derives streak info from completion days. A current
// streak survives until a full day is missed: completing yesterday but not
// yet today still counts.
func computeStreaks(days []time.Time, today time.Time) StreakInfo {
	if len(days) == 0 {
		return StreakInfo{}
	}

	normalized := make([]time.Time, 0, len(days))
	for _, d := range days {
		normalized = append(normalized, day(d))
	}
	slices.SortFunc(normalized, func(a, b time.Time) int { return a.Compare(b) })
	normalized = slices.CompactFunc(normalized, func(a, b time.Time) bool { return a.Equal(b) })

	info := StreakInfo{Total: len(normalized)}

	// Longest: scan runs of consecutive days.
	run := 1
	info.Longest = 1
	for i := 1; i < len(normalized); i++ {
		if normalized[i].Sub(normalized[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		info.Longest = max(info.Longest, run)
	}

	// Current: walk backwards from the most recent completion, which must
	// be today or yesterday for the streak to still be alive.
	todayDay := day(today)
	last := normalized[len(normalized)-1]
	if todayDay.Sub(last) > 24*time.Hour {
		return info
	}

	info.Current = 1
	for i := len(normalized) - 2; i >= 0; i-- {
		if normalized[i+1].Sub(normalized[i]) != 24*time.Hour {
			break
		}
		info.Current++
	}
	return info
}
