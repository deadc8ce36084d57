package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Subscription associates a user with exactly one plan for a validity
// window. A plan change never edits a subscription in place: the current
// row is deactivated and a fresh one created (NonExistent -> Active ->
// Superseded), while expiry is detected lazily on read (Active -> Expired).
type Subscription struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	PlanID    string     `json:"plan_id"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"` // set when superseded
}

// IsCurrentAt reports whether the subscription is the user's live
// subscription at the given time. Split from IsCurrent for tests with
// fixed clocks.
func (s *Subscription) IsCurrentAt(now time.Time) bool {
	return s.Active && now.Before(s.EndsAt)
}

// IsCurrent reports whether the subscription is live right now.
func (s *Subscription) IsCurrent() bool {
	return s.IsCurrentAt(time.Now().UTC())
}

// IsExpired reports whether the validity window has passed without the
// subscription being superseded.
func (s *Subscription) IsExpired() bool {
	return s.Active && !time.Now().UTC().Before(s.EndsAt)
}
