package health

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

// Entitlements is the slice of the evaluator the health service needs.
type Entitlements interface {
	HasFeature(ctx context.Context, userID uuid.UUID, f entitlement.Feature) bool
}

// DrugLabelLookup resolves drug labels from an external source.
type DrugLabelLookup interface {
	DrugLabel(ctx context.Context, brandName string) (*DrugLabel, error)
}

// Service owns wellness check-ins and the insights derived from them.
// Logging a check-in is unmetered; insight generation is reserved for
// plans carrying the ai feature.
type Service struct {
	repo         Repository
	entitlements Entitlements
	drugs        DrugLabelLookup
	log          *slog.Logger
	now          func() time.Time
}

// Option configures the health service.
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

// WithDrugLabelLookup sets the drug label source. Without one, lookups
// return ErrDrugLookupUnavailable.
func WithDrugLabelLookup(d DrugLabelLookup) Option {
	return func(s *Service) {
		if d != nil {
			s.drugs = d
		}
	}
}

// NewService creates the health service. Panics on nil dependencies.
func NewService(repo Repository, entitlements Entitlements, opts ...Option) *Service {
	if repo == nil {
		panic("health: Repository is required")
	}
	if entitlements == nil {
		panic("health: Entitlements is required")
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

// LogParams carries the user-supplied fields for a wellness check-in.
type LogParams struct {
	Day          time.Time // zero means today
	Mood         int
	SleepHours   float64
	WaterGlasses int
	Note         string
}

// Log records the day's check-in, replacing any earlier entry for that day.
func (s *Service) Log(ctx context.Context, userID uuid.UUID, params LogParams) (*WellnessLog, error) {
	if params.Mood < MoodMin || params.Mood > MoodMax {
		return nil, ErrInvalidMood
	}
	if params.SleepHours < 0 || params.SleepHours > 24 {
		return nil, ErrInvalidSleep
	}
	if params.WaterGlasses < 0 {
		return nil, ErrInvalidWater
	}

	now := s.now()
	onDay := params.Day
	if onDay.IsZero() {
		onDay = now
	}
	if day(onDay).After(day(now)) {
		return nil, ErrFutureLog
	}

	l := &WellnessLog{
		ID:           uuid.New(),
		UserID:       userID,
		Day:          day(onDay),
		Mood:         params.Mood,
		SleepHours:   params.SleepHours,
		WaterGlasses: params.WaterGlasses,
		Note:         strings.TrimSpace(params.Note),
		CreatedAt:    now,
	}
	if err := s.repo.UpsertLog(ctx, l); err != nil {
		return nil, fmt.Errorf("health: save log: %w", err)
	}

	s.log.InfoContext(ctx, "wellness log recorded",
		logger.UserID(userID), slog.Time("day", l.Day), logger.Component("health"))
	return l, nil
}

// LogForDay returns the check-in for one day, or ErrLogNotFound.
func (s *Service) LogForDay(ctx context.Context, userID uuid.UUID, d time.Time) (*WellnessLog, error) {
	return s.repo.LogForDay(ctx, userID, day(d))
}

// History returns the user's check-ins for the last n days, oldest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, n int) ([]WellnessLog, error) {
	if n <= 0 {
		n = insightWindowDays
	}
	since := day(s.now()).AddDate(0, 0, -(n - 1))
	return s.repo.LogsSince(ctx, userID, since)
}

// DeleteLog removes the check-in for one day.
func (s *Service) DeleteLog(ctx context.Context, userID uuid.UUID, d time.Time) error {
	return s.repo.DeleteLog(ctx, userID, day(d))
}

// Insights generates observations over the recent check-in window. Only
// plans carrying the ai feature may call this; everyone else gets
// ErrInsightsNotAvailable.
func (s *Service) Insights(ctx context.Context, userID uuid.UUID) ([]Insight, error) {
	if !s.entitlements.HasFeature(ctx, userID, entitlement.FeatureAI) {
		return nil, ErrInsightsNotAvailable
	}

	logs, err := s.History(ctx, userID, insightWindowDays)
	if err != nil {
		return nil, fmt.Errorf("health: load logs: %w", err)
	}
	return generateInsights(logs), nil
}

// LookupDrug fetches a drug label by brand name. Available on every plan.
func (s *Service) LookupDrug(ctx context.Context, brandName string) (*DrugLabel, error) {
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return nil, ErrDrugNotFound
	}
	if s.drugs == nil {
		return nil, ErrDrugLookupUnavailable
	}
	return s.drugs.DrugLabel(ctx, brandName)
}
