package entitlement

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/pkg/cache"
)

// Cache keys are namespaced under "entitlement:". TTLs are minutes-scale:
// plan edits and plan changes invalidate eagerly, the TTL only bounds
// staleness for readers that raced an invalidation.
const (
	planKeyPrefix  = "entitlement:plan:"
	activePlansKey = "entitlement:plans:active"
	subKeyPrefix   = "entitlement:sub:"
	DefaultPlanTTL = 10 * time.Minute
	DefaultSubTTL  = 5 * time.Minute
)

func planKey(id string) string       { return planKeyPrefix + id }
func subKey(userID uuid.UUID) string { return subKeyPrefix + userID.String() }

// CachedPlanStore decorates a PlanStore with cache-aside reads. SavePlan
// writes through and drops the affected keys, so invalidation lives with
// the mutation instead of being scattered across callers.
type CachedPlanStore struct {
	inner PlanStore
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedPlanStore(inner PlanStore, c cache.Cache, ttl time.Duration) *CachedPlanStore {
	if inner == nil {
		panic("entitlement: inner PlanStore is required")
	}
	if c == nil {
		c = cache.NoOp{}
	}
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &CachedPlanStore{inner: inner, cache: c, ttl: ttl}
}

func (s *CachedPlanStore) Plan(ctx context.Context, id string) (Plan, error) {
	if raw, ok := s.cache.Get(ctx, planKey(id)); ok {
		var plan Plan
		if err := json.Unmarshal(raw, &plan); err == nil {
			return plan, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = s.cache.Delete(ctx, planKey(id))
	}

	plan, err := s.inner.Plan(ctx, id)
	if err != nil {
		return Plan{}, err
	}

	if raw, err := json.Marshal(plan); err == nil {
		_ = s.cache.Set(ctx, planKey(id), raw, s.ttl)
	}
	return plan, nil
}

func (s *CachedPlanStore) ActivePlans(ctx context.Context) ([]Plan, error) {
	if raw, ok := s.cache.Get(ctx, activePlansKey); ok {
		var plans []Plan
		if err := json.Unmarshal(raw, &plans); err == nil {
			return plans, nil
		}
		_ = s.cache.Delete(ctx, activePlansKey)
	}

	plans, err := s.inner.ActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(plans); err == nil {
		_ = s.cache.Set(ctx, activePlansKey, raw, s.ttl)
	}
	return plans, nil
}

func (s *CachedPlanStore) SavePlan(ctx context.Context, plan Plan) error {
	if err := s.inner.SavePlan(ctx, plan); err != nil {
		return err
	}
	return s.cache.Delete(ctx, planKey(plan.ID), activePlansKey)
}

// CachedSubscriptionStore decorates a SubscriptionStore with cache-aside
// reads of the per-user current subscription. Supersede drops the user's
// key after the write, which is what makes AssignPlan immediately visible
// to subsequent checks.
type CachedSubscriptionStore struct {
	inner SubscriptionStore
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedSubscriptionStore(inner SubscriptionStore, c cache.Cache, ttl time.Duration) *CachedSubscriptionStore {
	if inner == nil {
		panic("entitlement: inner SubscriptionStore is required")
	}
	if c == nil {
		c = cache.NoOp{}
	}
	if ttl <= 0 {
		ttl = DefaultSubTTL
	}
	return &CachedSubscriptionStore{inner: inner, cache: c, ttl: ttl}
}

func (s *CachedSubscriptionStore) Current(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	if raw, ok := s.cache.Get(ctx, subKey(userID)); ok {
		var sub Subscription
		if err := json.Unmarshal(raw, &sub); err == nil {
			return &sub, nil
		}
		_ = s.cache.Delete(ctx, subKey(userID))
	}

	sub, err := s.inner.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(sub); err == nil {
		_ = s.cache.Set(ctx, subKey(userID), raw, s.ttl)
	}
	return sub, nil
}

func (s *CachedSubscriptionStore) Supersede(ctx context.Context, userID uuid.UUID, next *Subscription) error {
	if err := s.inner.Supersede(ctx, userID, next); err != nil {
		return err
	}
	return s.cache.Delete(ctx, subKey(userID))
}

// InvalidateUser drops the user's cached subscription. Exposed for the
// rare admin path that edits subscription rows directly in storage.
func (s *CachedSubscriptionStore) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Delete(ctx, subKey(userID))
}
