package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifehubapp/lifehub/pkg/email"
	"github.com/lifehubapp/lifehub/pkg/logger"
)

const minPasswordLength = 8

// DefaultPlanID is the plan every new account starts on.
const DefaultPlanID = "free"

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PlanAssigner puts a user on a plan. Satisfied by the entitlement
// evaluator.
type PlanAssigner interface {
	AssignPlan(ctx context.Context, userID uuid.UUID, planID string) error
}

// Service handles registration and authentication. Every new account is
// put on the default free plan so entitlement checks work immediately.
type Service struct {
	storage    Storage
	plans      PlanAssigner
	mailer     email.Sender
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time
}

// Option configures the user service.
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

// WithMailer enables the welcome email. Without one, registration skips it.
func WithMailer(m email.Sender) Option {
	return func(s *Service) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithBcryptCost overrides the hashing cost, mainly to speed up tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewService creates the user service. Panics on nil dependencies.
func NewService(storage Storage, plans PlanAssigner, opts ...Option) *Service {
	if storage == nil {
		panic("user: Storage is required")
	}
	if plans == nil {
		panic("user: PlanAssigner is required")
	}
	s := &Service{
		storage:    storage,
		plans:      plans,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries the signup form fields.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

// Register creates an account, assigns the default free plan and sends the
// welcome email. If the plan assignment fails the account is rolled back
// so a user never exists without entitlements. The welcome email is best
// effort.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	addr := normalizeEmail(params.Email)
	if !emailRegex.MatchString(addr) {
		return nil, ErrInvalidEmail
	}
	if len(params.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.storage.UserByEmail(ctx, addr); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("user: check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("user: hash password: %w", err)
	}

	u := &User{
		ID:        uuid.New(),
		Email:     addr,
		Name:      strings.TrimSpace(params.Name),
		CreatedAt: s.now(),
	}
	if err := s.storage.CreateUser(ctx, u, hash); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("user: create: %w", err)
	}

	if err := s.plans.AssignPlan(ctx, u.ID, DefaultPlanID); err != nil {
		// Roll the account back so it never exists without entitlements.
		if deleteErr := s.storage.DeleteUser(ctx, u.ID); deleteErr != nil {
			s.log.ErrorContext(ctx, "cleanup after plan assignment failure failed",
				logger.UserID(u.ID), logger.Error(deleteErr), logger.Component("user"))
		}
		return nil, fmt.Errorf("user: assign default plan: %w", err)
	}

	s.sendWelcomeEmail(ctx, u)

	s.log.InfoContext(ctx, "user registered",
		logger.UserID(u.ID), logger.Component("user"))
	return u, nil
}

// Authenticate verifies email and password. Every failure mode comes back
// as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, emailAddr, password string) (*User, error) {
	u, err := s.storage.UserByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.storage.PasswordHash(ctx, u.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ByID returns one user.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.UserByID(ctx, id)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	hash, err := s.storage.PasswordHash(ctx, id)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("user: hash password: %w", err)
	}
	return s.storage.UpdatePasswordHash(ctx, id, newHash)
}

func (s *Service) sendWelcomeEmail(ctx context.Context, u *User) {
	if s.mailer == nil {
		return
	}

	name := u.Name
	if name == "" {
		name = "there"
	}
	err := s.mailer.Send(ctx, email.SendParams{
		To:      u.Email,
		Subject: "Welcome to LifeHub",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your LifeHub account is ready. You are on the free plan; upgrade any time from the billing page.</p>",
			name),
		Tag: "welcome",
	})
	if err != nil {
		s.log.WarnContext(ctx, "welcome email failed",
			logger.UserID(u.ID), logger.Error(err), logger.Component("user"))
	}
}

// normalizeEmail lowercases and trims the address.
func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
