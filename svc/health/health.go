package health

import (
	"time"

	"github.com/google/uuid"
)

// Mood bounds for a wellness log entry.
const (
	MoodMin = 1
	MoodMax = 5
)

// WellnessLog is one day's self-reported wellness check-in. One log per
// user per day; logging the same day again replaces the earlier entry.
type WellnessLog struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Day          time.Time `json:"day"` // normalized to midnight UTC
	Mood         int       `json:"mood"`
	SleepHours   float64   `json:"sleep_hours"`
	WaterGlasses int       `json:"water_glasses"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Insight is one generated observation over recent wellness logs.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// day truncates t to midnight UTC.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
