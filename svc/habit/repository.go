package habit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists habits and completions. All lookups are scoped by
// the owning user; a habit is never visible across users.
type Repository interface {
	Create(ctx context.Context, h *Habit) error
	ByID(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	Archive(ctx context.Context, userID, habitID uuid.UUID, at time.Time) error

	// CountActive returns the number of non-archived habits for the user.
	// Registered as the habits CounterFunc with the entitlement evaluator.
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)

	// AddCompletion records a completion; completing the same day twice
	// must be idempotent.
	AddCompletion(ctx context.Context, c Completion) error
	CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error)
}
