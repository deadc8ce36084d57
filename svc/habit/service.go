package habit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/pkg/logger"
	"github.com/lifehubapp/lifehub/svc/entitlement"
)

// Entitlements is the slice of the evaluator the habit service needs.
type Entitlements interface {
	CheckCanCreate(ctx context.Context, userID uuid.UUID, res entitlement.Resource) entitlement.Decision
}

// Service owns habit tracking. Creation is quota-checked against the
// user's plan; the check and the insert are separate reads, so two
// concurrent creates may overshoot the quota by one (soft quota).
type Service struct {
	repo         Repository
	entitlements Entitlements
	log          *slog.Logger
	now          func() time.Time
}

// Option configures the habit service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the habit service. Panics on nil dependencies.
func NewService(repo Repository, entitlements Entitlements, opts ...Option) *Service {
	if repo == nil {
		panic("habit: Repository is required")
	}
	if entitlements == nil {
		panic("habit: Entitlements is required")
	}
	s := &Service{
		repo:         repo,
		entitlements: entitlements,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the user-supplied fields for a new habit.
type CreateParams struct {
	Name        string
	Description string
}

// Create adds a habit after an entitlement check. A deny comes back as
// *entitlement.DeniedError carrying the user-facing message.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Habit, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if decision := s.entitlements.CheckCanCreate(ctx, userID, entitlement.ResourceHabit); !decision.Allowed {
		return nil, entitlement.Denied(decision)
	}

	h := &Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("habit: create: %w", err)
	}

	s.log.InfoContext(ctx, "habit created",
		logger.UserID(userID), slog.String("habit_id", h.ID.String()),
		logger.Component("habit"))
	return h, nil
}

// List returns the user's habits, including archived ones.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one habit owned by the user.
func (s *Service) Get(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error) {
	return s.repo.ByID(ctx, userID, habitID)
}

// Archive retires a habit; it stops counting against the quota.
func (s *Service) Archive(ctx context.Context, userID, habitID uuid.UUID) error {
	h, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if h.IsArchived() {
		return ErrArchived
	}
	return s.repo.Archive(ctx, userID, habitID, s.now())
}

// Complete marks the habit done on the given day (or today when zero).
// Completing the same day twice is a no-op.
func (s *Service) Complete(ctx context.Context, userID, habitID uuid.UUID, onDay time.Time) error {
	h, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return err
	}
	if h.IsArchived() {
		return ErrArchived
	}

	now := s.now()
	if onDay.IsZero() {
		onDay = now
	}
	if day(onDay).After(day(now)) {
		return ErrFutureCompletion
	}

	return s.repo.AddCompletion(ctx, Completion{
		HabitID:     h.ID,
		Day:         day(onDay),
		CompletedAt: now,
	})
}

// Streaks returns streak statistics for a habit.
func (s *Service) Streaks(ctx context.Context, userID, habitID uuid.UUID) (StreakInfo, error) {
	h, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return StreakInfo{}, err
	}

	days, err := s.repo.CompletionDays(ctx, h.ID)
	if err != nil {
		return StreakInfo{}, fmt.Errorf("habit: load completions: %w", err)
	}

	return computeStreaks(days, s.now()), nil
}

// Counter exposes the live-habit count for the entitlement registry.
func (s *Service) Counter() entitlement.CounterFunc {
	return s.repo.CountActive
}
