package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/svc/entitlement"
)

func testPlans() []entitlement.Plan {
	return []entitlement.Plan{
		{
			ID:   "free",
			Name: "Free",
			Quotas: map[entitlement.Resource]entitlement.Quota{
				entitlement.ResourceHabit:       entitlement.LimitOf(3),
				entitlement.ResourceTransaction: entitlement.LimitOf(50),
				entitlement.ResourceBudget:      entitlement.LimitOf(2),
			},
			Features:     []entitlement.Feature{},
			DurationDays: 365,
			Active:       true,
		},
		{
			ID:   "premium",
			Name: "Premium",
			Quotas: map[entitlement.Resource]entitlement.Quota{
				entitlement.ResourceHabit:       entitlement.LimitOf(25),
				entitlement.ResourceTransaction: entitlement.NoLimit(),
				entitlement.ResourceBudget:      entitlement.LimitOf(10),
			},
			Features: []entitlement.Feature{
				entitlement.FeatureCommunity,
				entitlement.FeatureAnalytics,
				entitlement.FeatureAI,
			},
			PriceCents:   999,
			DurationDays: 30,
			Active:       true,
		},
		{
			ID:           "legacy",
			Name:         "Legacy",
			Quotas:       map[entitlement.Resource]entitlement.Quota{},
			DurationDays: 30,
			Active:       false,
		},
	}
}

// fixedCounts is a CounterRegistry over static per-user counts.
func fixedCounts(counts map[uuid.UUID]map[entitlement.Resource]int64) entitlement.CounterRegistry {
	reg := entitlement.NewRegistry()
	for _, res := range entitlement.Resources {
		res := res
		reg.Register(res, func(ctx context.Context, userID uuid.UUID) (int64, error) {
			return counts[userID][res], nil
		})
	}
	return reg
}

func newEvaluator(t *testing.T, counters entitlement.CounterRegistry) (*entitlement.Evaluator, *entitlement.InMemSubscriptionStore) {
	t.Helper()
	subs := entitlement.NewInMemSubscriptionStore()
	eval := entitlement.NewEvaluator(
		entitlement.NewInMemPlanStore(testPlans()...),
		subs,
		counters,
	)
	return eval, subs
}

func TestCheckCanCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("denies every resource without a subscription", func(t *testing.T) {
		t.Parallel()
		eval, _ := newEvaluator(t, fixedCounts(nil))
		userID := uuid.New()

		for _, res := range entitlement.Resources {
			d := eval.CheckCanCreate(ctx, userID, res)
			assert.False(t, d.Allowed)
			assert.Equal(t, int64(0), d.CurrentCount)
			assert.Equal(t, int64(0), d.MaxCount)
			assert.Equal(t, "no active plan", d.Message)
		}
	})

	t.Run("allows while under quota", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceHabit: 2},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))

		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.True(t, d.Allowed)
		assert.Equal(t, int64(2), d.CurrentCount)
		assert.Equal(t, int64(3), d.MaxCount)
	})

	t.Run("denies at quota with counts in the message", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceHabit: 3},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))

		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.False(t, d.Allowed)
		assert.Equal(t, int64(3), d.CurrentCount)
		assert.Equal(t, int64(3), d.MaxCount)
		assert.Contains(t, d.Message, "3")
	})

	t.Run("allows unlimited resources regardless of count", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceTransaction: 1_000_000},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceTransaction)
		assert.True(t, d.Allowed)
		assert.True(t, d.Unlimited)
		assert.Equal(t, int64(1_000_000), d.CurrentCount)
	})

	t.Run("is a pure read: repeated calls return identical decisions", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceBudget: 1},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))

		first := eval.CheckCanCreate(ctx, userID, entitlement.ResourceBudget)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, eval.CheckCanCreate(ctx, userID, entitlement.ResourceBudget))
		}
	})

	t.Run("denies after the subscription expires", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		subs := entitlement.NewInMemSubscriptionStore()
		now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		eval := entitlement.NewEvaluator(
			entitlement.NewInMemPlanStore(testPlans()...),
			subs,
			fixedCounts(nil),
			entitlement.WithClock(func() time.Time { return now }),
		)
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.True(t, d.Allowed)

		// Premium runs 30 days; jump past the end date.
		now = now.AddDate(0, 0, 31)
		d = eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.False(t, d.Allowed)
		assert.Equal(t, "no active plan", d.Message)
	})

	t.Run("degrades to deny when subscription lookup fails", func(t *testing.T) {
		t.Parallel()
		eval := entitlement.NewEvaluator(
			entitlement.NewInMemPlanStore(testPlans()...),
			failingSubscriptionStore{},
			fixedCounts(nil),
		)

		d := eval.CheckCanCreate(ctx, uuid.New(), entitlement.ResourceHabit)
		assert.False(t, d.Allowed)
		assert.Equal(t, "plan information is temporarily unavailable", d.Message)
	})

	t.Run("degrades to deny when the counter fails", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		reg := entitlement.NewRegistry()
		for _, res := range entitlement.Resources {
			reg.Register(res, func(ctx context.Context, _ uuid.UUID) (int64, error) {
				return 0, errors.New("count query timed out")
			})
		}
		subs := entitlement.NewInMemSubscriptionStore()
		eval := entitlement.NewEvaluator(entitlement.NewInMemPlanStore(testPlans()...), subs, reg)
		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))

		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.False(t, d.Allowed)
		assert.Equal(t, "usage information is temporarily unavailable", d.Message)
	})
}

func TestHasFeature(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("false for every feature without a subscription", func(t *testing.T) {
		t.Parallel()
		eval, _ := newEvaluator(t, fixedCounts(nil))
		userID := uuid.New()

		for _, f := range entitlement.Features {
			assert.False(t, eval.HasFeature(ctx, userID, f))
		}
	})

	t.Run("follows the assigned plan's flags", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(nil))

		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))
		assert.True(t, eval.HasFeature(ctx, userID, entitlement.FeatureAI))

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		assert.False(t, eval.HasFeature(ctx, userID, entitlement.FeatureAI))
	})
}

func TestAssignPlan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("new checks reflect the new plan immediately", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceHabit: 5},
		}))

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		assert.False(t, eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit).Allowed)

		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))
		d := eval.CheckCanCreate(ctx, userID, entitlement.ResourceHabit)
		assert.True(t, d.Allowed)
		assert.Equal(t, int64(25), d.MaxCount)
	})

	t.Run("second assignment leaves exactly one active subscription", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, subs := newEvaluator(t, fixedCounts(nil))

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		history := subs.History(userID)
		require.Len(t, history, 2)

		active := 0
		for _, sub := range history {
			if sub.Active {
				active++
				assert.Equal(t, "premium", sub.PlanID)
			} else {
				assert.NotNil(t, sub.EndedAt)
			}
		}
		assert.Equal(t, 1, active)
	})

	t.Run("unknown plan fails and leaves the prior subscription untouched", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, subs := newEvaluator(t, fixedCounts(nil))

		require.NoError(t, eval.AssignPlan(ctx, userID, "free"))
		err := eval.AssignPlan(ctx, userID, "nonexistent")
		require.ErrorIs(t, err, entitlement.ErrPlanNotFound)

		current, err := subs.Current(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "free", current.PlanID)
		assert.Len(t, subs.History(userID), 1)
	})

	t.Run("inactive plan is rejected", func(t *testing.T) {
		t.Parallel()
		eval, _ := newEvaluator(t, fixedCounts(nil))
		err := eval.AssignPlan(ctx, uuid.New(), "legacy")
		require.ErrorIs(t, err, entitlement.ErrPlanInactive)
	})

	t.Run("subscription window follows the plan duration", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		subs := entitlement.NewInMemSubscriptionStore()
		now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		eval := entitlement.NewEvaluator(
			entitlement.NewInMemPlanStore(testPlans()...),
			subs,
			fixedCounts(nil),
			entitlement.WithClock(func() time.Time { return now }),
		)

		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		current, err := subs.Current(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, now, current.StartsAt)
		assert.Equal(t, now.AddDate(0, 0, 30), current.EndsAt)
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
		userID: {
			entitlement.ResourceHabit:       2,
			entitlement.ResourceTransaction: 40,
			entitlement.ResourceBudget:      2,
		},
	}))
	require.NoError(t, eval.AssignPlan(ctx, userID, "free"))

	t.Run("reports usage per resource", func(t *testing.T) {
		t.Parallel()
		usage, err := eval.Usage(ctx, userID)
		require.NoError(t, err)
		require.Len(t, usage, 3)
		assert.Equal(t, int64(2), usage[entitlement.ResourceHabit].Current)
		assert.Equal(t, int64(3), usage[entitlement.ResourceHabit].Quota.Limit)
	})

	t.Run("percentage caps at 100 and marks unlimited as -1", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, eval.UsagePercentage(ctx, userID, entitlement.ResourceBudget))
		assert.Equal(t, 66, eval.UsagePercentage(ctx, userID, entitlement.ResourceHabit))

		premiumUser := uuid.New()
		eval2, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			premiumUser: {entitlement.ResourceTransaction: 500},
		}))
		require.NoError(t, eval2.AssignPlan(ctx, premiumUser, "premium"))
		assert.Equal(t, -1, eval2.UsagePercentage(ctx, premiumUser, entitlement.ResourceTransaction))
	})

	t.Run("errors without an active plan", func(t *testing.T) {
		t.Parallel()
		_, err := eval.Usage(ctx, uuid.New())
		require.ErrorIs(t, err, entitlement.ErrNoActiveSubscription)
	})
}

func TestCanDowngrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blocked while usage exceeds the target quota", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceHabit: 10},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		err := eval.CanDowngrade(ctx, userID, "free")
		require.ErrorIs(t, err, entitlement.ErrDowngradeNotPossible)
	})

	t.Run("allowed when usage fits", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		eval, _ := newEvaluator(t, fixedCounts(map[uuid.UUID]map[entitlement.Resource]int64{
			userID: {entitlement.ResourceHabit: 2},
		}))
		require.NoError(t, eval.AssignPlan(ctx, userID, "premium"))

		require.NoError(t, eval.CanDowngrade(ctx, userID, "free"))
	})
}

// failingSubscriptionStore simulates an unreachable database.
type failingSubscriptionStore struct{}

func (failingSubscriptionStore) Current(ctx context.Context, userID uuid.UUID) (*entitlement.Subscription, error) {
	return nil, errors.New("connection refused")
}

func (failingSubscriptionStore) Supersede(ctx context.Context, userID uuid.UUID, next *entitlement.Subscription) error {
	return errors.New("connection refused")
}
