package health

import "fmt"

// Heuristic thresholds for insight generation.
const (
	insightWindowDays  = 14
	minLogsForInsights = 3
	lowSleepHours      = 7.0
	lowWaterGlasses    = 6
	lowMoodScore       = 2.5
)

// generateInsights derives rule-based observations from recent logs,
// oldest first. Returns nil when there is too little data to say anything.
func generateInsights(logs []WellnessLog) []Insight {
	if len(logs) < minLogsForInsights {
		return nil
	}

	var sleepSum, moodSum float64
	var waterSum int
	for _, l := range logs {
		sleepSum += l.SleepHours
		moodSum += float64(l.Mood)
		waterSum += l.WaterGlasses
	}
	n := float64(len(logs))
	avgSleep := sleepSum / n
	avgMood := moodSum / n
	avgWater := float64(waterSum) / n

	var out []Insight
	if avgSleep < lowSleepHours {
		out = append(out, Insight{
			Kind: "sleep",
			Message: fmt.Sprintf("You averaged %.1f hours of sleep over the last %d days; aim for at least %.0f.",
				avgSleep, len(logs), lowSleepHours),
		})
	}
	if avgWater < lowWaterGlasses {
		out = append(out, Insight{
			Kind: "hydration",
			Message: fmt.Sprintf("You averaged %.1f glasses of water a day; try to reach %d.",
				avgWater, lowWaterGlasses),
		})
	}
	if avgMood < lowMoodScore {
		out = append(out, Insight{
			Kind:    "mood",
			Message: fmt.Sprintf("Your mood averaged %.1f out of %d recently; consider a check-in with someone you trust.", avgMood, MoodMax),
		})
	}
	if trend := moodTrend(logs); trend < 0 {
		out = append(out, Insight{
			Kind:    "mood_trend",
			Message: "Your mood has been trending down over the period.",
		})
	}
	if len(out) == 0 {
		out = append(out, Insight{
			Kind:    "steady",
			Message: "Sleep, hydration and mood all look steady. Keep it up.",
		})
	}
	return out
}

// moodTrend compares the average mood of the second half of the window
// against the first half. Negative means declining.
func moodTrend(logs []WellnessLog) float64 {
	half := len(logs) / 2
	if half == 0 {
		return 0
	}
	var first, second float64
	for i, l := range logs {
		if i < half {
			first += float64(l.Mood)
		} else {
			second += float64(l.Mood)
		}
	}
	return second/float64(len(logs)-half) - first/float64(half)
}
