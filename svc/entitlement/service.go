package entitlement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/pkg/logger"
)

// User-facing messages attached to deny decisions. Feature services
// surface these verbatim.
const (
	msgNoActivePlan     = "no active plan"
	msgPlanUnavailable  = "plan information is temporarily unavailable"
	msgUsageUnavailable = "usage information is temporarily unavailable"
)

// Evaluator decides, for a given user and resource type, whether one more
// unit may be created, and resolves plan feature flags. It is a pure
// function of its injected collaborators: no ambient request state, no
// global caches.
//
// The check is a plain read with no lock spanning the check and the
// caller's subsequent insert. Two concurrent creates can both observe
// count = quota-1 and both succeed, overshooting the quota by one. This
// soft-quota behavior is deliberate; tightening it to a transactional
// count-and-insert would block users mid-request.
type Evaluator struct {
	plans    PlanStore
	subs     SubscriptionStore
	counters CounterRegistry
	log      *slog.Logger
	now      func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger for degraded-read reporting.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock overrides the time source, for tests with fixed clocks.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator creates an Evaluator. Panics on nil stores to fail fast at
// wiring time; a nil registry is replaced with an empty one.
func NewEvaluator(plans PlanStore, subs SubscriptionStore, counters CounterRegistry, opts ...Option) *Evaluator {
	if plans == nil {
		panic("entitlement: PlanStore is required")
	}
	if subs == nil {
		panic("entitlement: SubscriptionStore is required")
	}
	if counters == nil {
		counters = NewRegistry()
	}

	e := &Evaluator{
		plans:    plans,
		subs:     subs,
		counters: counters,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckCanCreate decides whether the user may create one more unit of the
// given resource. It never returns an error: lookup failures degrade to a
// deny decision so callers only ever branch on Allowed.
func (e *Evaluator) CheckCanCreate(ctx context.Context, userID uuid.UUID, res Resource) Decision {
	plan, ok := e.currentPlan(ctx, userID)
	if !ok.allowedToProceed {
		return Decision{Message: ok.message}
	}

	quota := plan.QuotaFor(res)
	if quota.Unlimited {
		current, err := e.count(ctx, userID, res)
		if err != nil {
			// Unlimited resources do not need the count to decide, only
			// for display; report zero rather than denying.
			current = 0
		}
		return Decision{
			Allowed:      true,
			CurrentCount: current,
			Unlimited:    true,
			Message:      fmt.Sprintf("unlimited %s", res),
		}
	}

	current, err := e.count(ctx, userID, res)
	if err != nil {
		e.log.WarnContext(ctx, "usage count failed, denying create",
			logger.UserID(userID), logger.Resource(res.String()), logger.Error(err),
			logger.Component("entitlement"))
		return Decision{MaxCount: quota.Limit, Message: msgUsageUnavailable}
	}

	if !quota.Allows(current) {
		return Decision{
			CurrentCount: current,
			MaxCount:     quota.Limit,
			Message:      fmt.Sprintf("%s limit reached: %d of %d used", res, current, quota.Limit),
		}
	}

	return Decision{
		Allowed:      true,
		CurrentCount: current,
		MaxCount:     quota.Limit,
		Message:      fmt.Sprintf("%d of %d %s used", current, quota.Limit, res),
	}
}

// HasFeature reports whether the user's active plan enables the feature.
// No active plan, or any lookup failure, means false for every feature.
func (e *Evaluator) HasFeature(ctx context.Context, userID uuid.UUID, f Feature) bool {
	plan, ok := e.currentPlan(ctx, userID)
	if !ok.allowedToProceed {
		return false
	}
	return plan.HasFeature(f)
}

// AssignPlan moves the user onto the target plan: the current subscription
// (if any) is superseded and a new one created with start = now and
// end = now + the plan's duration. The target must exist and be active;
// on failure the user's prior subscription is untouched.
//
// Cache invalidation for the user's subscription happens inside the
// store's Supersede (see CachedSubscriptionStore), so callers never manage
// cache keys.
func (e *Evaluator) AssignPlan(ctx context.Context, userID uuid.UUID, planID string) error {
	plan, err := e.plans.Plan(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.Active {
		return ErrPlanInactive
	}

	now := e.now()
	next := &Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		StartsAt:  now,
		EndsAt:    now.AddDate(0, 0, plan.DurationDays),
		Active:    true,
		CreatedAt: now,
	}

	if err := e.subs.Supersede(ctx, userID, next); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "plan assigned",
		logger.UserID(userID), logger.PlanID(plan.ID), logger.Component("entitlement"))
	return nil
}

// CurrentPlan returns the user's active plan and subscription, or
// ErrNoActiveSubscription. Unlike CheckCanCreate this propagates lookup
// errors, for callers that render billing pages and want the distinction.
func (e *Evaluator) CurrentPlan(ctx context.Context, userID uuid.UUID) (Plan, *Subscription, error) {
	sub, err := e.subs.Current(ctx, userID)
	if err != nil {
		return Plan{}, nil, err
	}
	if !sub.IsCurrentAt(e.now()) {
		return Plan{}, nil, ErrNoActiveSubscription
	}

	plan, err := e.plans.Plan(ctx, sub.PlanID)
	if err != nil {
		return Plan{}, nil, err
	}
	return plan, sub, nil
}

// UsageFor returns current usage against quota for one resource.
func (e *Evaluator) UsageFor(ctx context.Context, userID uuid.UUID, res Resource) (UsageInfo, error) {
	plan, _, err := e.CurrentPlan(ctx, userID)
	if err != nil {
		return UsageInfo{}, err
	}

	current, err := e.count(ctx, userID, res)
	if err != nil {
		return UsageInfo{}, err
	}

	return UsageInfo{Current: current, Quota: plan.QuotaFor(res)}, nil
}

// Usage returns usage for every resource type, for the billing dashboard.
// Counter failures leave the affected resource at zero rather than failing
// the whole page.
func (e *Evaluator) Usage(ctx context.Context, userID uuid.UUID) (map[Resource]UsageInfo, error) {
	plan, _, err := e.CurrentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make(map[Resource]UsageInfo, len(Resources))
	for _, res := range Resources {
		info := UsageInfo{Quota: plan.QuotaFor(res)}
		if current, err := e.count(ctx, userID, res); err == nil {
			info.Current = current
		}
		result[res] = info
	}
	return result, nil
}

// UsagePercentage returns usage as a percentage (0-100, or -1 for
// unlimited). Returns 0 on any lookup failure.
func (e *Evaluator) UsagePercentage(ctx context.Context, userID uuid.UUID, res Resource) int {
	info, err := e.UsageFor(ctx, userID, res)
	if err != nil {
		return 0
	}
	if info.Quota.Unlimited {
		return -1
	}
	if info.Quota.Limit == 0 {
		return 100
	}
	return min(int((info.Current*100)/info.Quota.Limit), 100)
}

// CanDowngrade checks whether the user's current usage fits within the
// target plan's quotas. Resources without a registered counter are skipped.
func (e *Evaluator) CanDowngrade(ctx context.Context, userID uuid.UUID, targetPlanID string) error {
	target, err := e.plans.Plan(ctx, targetPlanID)
	if err != nil {
		return err
	}

	for _, res := range Resources {
		quota := target.QuotaFor(res)
		if quota.Unlimited {
			continue
		}

		counter, exists := e.counters[res]
		if !exists {
			continue
		}

		current, err := counter(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFailedToCountUsage, res, err)
		}

		if current > quota.Limit {
			return fmt.Errorf("%w: %d %s exceed the target cap of %d",
				ErrDowngradeNotPossible, current, res, quota.Limit)
		}
	}

	return nil
}

// proceedCheck is the internal outcome of resolving the current plan for a
// degrading read path.
type proceedCheck struct {
	allowedToProceed bool
	message          string
}

// currentPlan resolves the user's live plan for CheckCanCreate/HasFeature.
// Missing or expired subscriptions and infrastructure failures both come
// back as not-proceed, with distinct messages so users can tell "upgrade
// needed" from "try again later".
func (e *Evaluator) currentPlan(ctx context.Context, userID uuid.UUID) (Plan, proceedCheck) {
	sub, err := e.subs.Current(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return Plan{}, proceedCheck{message: msgNoActivePlan}
		}
		e.log.WarnContext(ctx, "subscription lookup failed, denying",
			logger.UserID(userID), logger.Error(err), logger.Component("entitlement"))
		return Plan{}, proceedCheck{message: msgPlanUnavailable}
	}

	if !sub.IsCurrentAt(e.now()) {
		return Plan{}, proceedCheck{message: msgNoActivePlan}
	}

	plan, err := e.plans.Plan(ctx, sub.PlanID)
	if err != nil {
		e.log.WarnContext(ctx, "plan lookup failed, denying",
			logger.UserID(userID), logger.PlanID(sub.PlanID), logger.Error(err),
			logger.Component("entitlement"))
		return Plan{}, proceedCheck{message: msgPlanUnavailable}
	}

	return plan, proceedCheck{allowedToProceed: true}
}

func (e *Evaluator) count(ctx context.Context, userID uuid.UUID, res Resource) (int64, error) {
	counter, exists := e.counters[res]
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrNoCounterRegistered, res)
	}
	current, err := counter(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToCountUsage, err)
	}
	return current, nil
}
