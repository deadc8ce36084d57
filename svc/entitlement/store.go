package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// PlanStore provides access to the plan catalog.
type PlanStore interface {
	// Plan returns the plan with the given id, or ErrPlanNotFound.
	Plan(ctx context.Context, id string) (Plan, error)

	// ActivePlans returns all plans available for assignment.
	ActivePlans(ctx context.Context) ([]Plan, error)

	// SavePlan creates or updates a plan. Deactivation (Active=false) is
	// the only form of deletion: referenced plans are never removed.
	SavePlan(ctx context.Context, plan Plan) error
}

// SubscriptionStore provides access to user subscription records.
type SubscriptionStore interface {
	// Current returns the user's active subscription row, or
	// ErrNoActiveSubscription when none exists. Expiry is the caller's
	// concern: the returned row may already be past its end date.
	Current(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// Supersede atomically deactivates the user's active subscription (if
	// any) and inserts next as the new active one. On failure the previous
	// subscription is left untouched.
	Supersede(ctx context.Context, userID uuid.UUID, next *Subscription) error
}
