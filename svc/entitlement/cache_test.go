package entitlement_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/pkg/cache"
	"github.com/lifehubapp/lifehub/svc/entitlement"
)

// countingPlanStore counts how often the inner store is hit.
type countingPlanStore struct {
	inner entitlement.PlanStore
	hits  atomic.Int64
}

func (s *countingPlanStore) Plan(ctx context.Context, id string) (entitlement.Plan, error) {
	s.hits.Add(1)
	return s.inner.Plan(ctx, id)
}

func (s *countingPlanStore) ActivePlans(ctx context.Context) ([]entitlement.Plan, error) {
	s.hits.Add(1)
	return s.inner.ActivePlans(ctx)
}

func (s *countingPlanStore) SavePlan(ctx context.Context, plan entitlement.Plan) error {
	return s.inner.SavePlan(ctx, plan)
}

func TestCachedPlanStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("serves repeated reads from cache", func(t *testing.T) {
		t.Parallel()
		counting := &countingPlanStore{inner: entitlement.NewInMemPlanStore(testPlans()...)}
		cached := entitlement.NewCachedPlanStore(counting, cache.NewMemory(), time.Minute)

		for i := 0; i < 3; i++ {
			plan, err := cached.Plan(ctx, "free")
			require.NoError(t, err)
			assert.Equal(t, "Free", plan.Name)
		}
		assert.Equal(t, int64(1), counting.hits.Load())
	})

	t.Run("round-trips quotas through the cache intact", func(t *testing.T) {
		t.Parallel()
		cached := entitlement.NewCachedPlanStore(
			entitlement.NewInMemPlanStore(testPlans()...), cache.NewMemory(), time.Minute)

		// First read populates, second read is served from cache.
		_, err := cached.Plan(ctx, "premium")
		require.NoError(t, err)
		plan, err := cached.Plan(ctx, "premium")
		require.NoError(t, err)

		assert.True(t, plan.QuotaFor(entitlement.ResourceTransaction).Unlimited)
		assert.Equal(t, int64(25), plan.QuotaFor(entitlement.ResourceHabit).Limit)
		assert.True(t, plan.HasFeature(entitlement.FeatureAI))
	})

	t.Run("SavePlan invalidates the cached entries", func(t *testing.T) {
		t.Parallel()
		inner := entitlement.NewInMemPlanStore(testPlans()...)
		cached := entitlement.NewCachedPlanStore(inner, cache.NewMemory(), time.Minute)

		plan, err := cached.Plan(ctx, "free")
		require.NoError(t, err)

		plan.Name = "Free (updated)"
		require.NoError(t, cached.SavePlan(ctx, plan))

		reread, err := cached.Plan(ctx, "free")
		require.NoError(t, err)
		assert.Equal(t, "Free (updated)", reread.Name)
	})
}

func TestCachedSubscriptionStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("supersede invalidates so checks see the new plan", func(t *testing.T) {
		t.Parallel()
		mem := cache.NewMemory()
		subs := entitlement.NewCachedSubscriptionStore(
			entitlement.NewInMemSubscriptionStore(), mem, time.Minute)
		eval := entitlement.NewEvaluator(
			entitlement.NewCachedPlanStore(entitlement.NewInMemPlanStore(testPlans()...), mem, time.Minute),
			subs,
			fixedCounts(nil),
		)
		userID := uuid.New()

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		assert.False(t, eval.HasFeature(ctx, userID, entitlement.FeatureAI))

		// The subscription read above is now cached; AssignPlan must drop
		// it for the next check to see premium.
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))
		assert.True(t, eval.HasFeature(ctx, userID, entitlement.FeatureAI))
	})

	t.Run("cache failure degrades to the inner store", func(t *testing.T) {
		t.Parallel()
		subs := entitlement.NewCachedSubscriptionStore(
			entitlement.NewInMemSubscriptionStore(), cache.NoOp{}, time.Minute)
		eval := entitlement.NewEvaluator(
			entitlement.NewInMemPlanStore(testPlans()...), subs, fixedCounts(nil))
		userID := uuid.New()

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		current, err := subs.Current(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "free", current.PlanID)
	})
}
