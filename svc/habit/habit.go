package habit

import (
	"time"

	"github.com/google/uuid"
)

// Habit is a recurring practice a user tracks daily. Archived habits stop
// counting against the plan quota but keep their completion history.
type Habit struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// IsArchived reports whether the habit has been archived.
func (h *Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// Completion marks a habit done on a calendar day. At most one completion
// per habit per day.
type Completion struct {
	HabitID     uuid.UUID `json:"habit_id"`
	Day         time.Time `json:"day"` // normalized to midnight UTC
	CompletedAt time.Time `json:"completed_at"`
}

// StreakInfo summarizes a habit's completion streaks.
type StreakInfo struct {
	Current int `json:"current"` // consecutive days ending today or yesterday
	Longest int `json:"longest"`
	Total   int `json:"total"` // all-time completion count
}
