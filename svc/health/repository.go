package health

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists wellness logs.
type Repository interface {
	// UpsertLog stores the log, replacing any earlier entry for the same
	// user and day.
	UpsertLog(ctx context.Context, l *WellnessLog) error
	LogForDay(ctx context.Context, userID uuid.UUID, d time.Time) (*WellnessLog, error)
	// LogsSince returns the user's logs with Day >= since, oldest first.
	LogsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]WellnessLog, error)
	DeleteLog(ctx context.Context, userID uuid.UUID, d time.Time) error
}
