package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/svc/entitlement"
	"github.com/lifehubapp/lifehub/svc/finance"
)

// newFixture wires a finance service against an in-memory repository and a
// real evaluator whose counters read back from that repository.
func newFixture(t *testing.T, now time.Time) (*finance.Service, uuid.UUID) {
	t.Helper()

	plans := entitlement.NewInMemPlanStore(entitlement.Plan{
		ID:   "starter",
		Name: "Starter",
		Quotas: map[entitlement.Resource]entitlement.Quota{
			entitlement.ResourceTransaction: entitlement.LimitOf(5),
			entitlement.ResourceBudget:      entitlement.LimitOf(2),
		},
		DurationDays: 30,
		Active:       true,
	})
	subs := entitlement.NewInMemSubscriptionStore()

	repo := finance.NewInMemRepository()
	registry := entitlement.NewRegistry()
	registry.Register(entitlement.ResourceTransaction, repo.CountTransactions)
	registry.Register(entitlement.ResourceBudget, repo.CountBudgets)

	eval := entitlement.NewEvaluator(plans, subs, registry,
		entitlement.WithClock(func() time.Time { return now }))

	userID := uuid.New()
	require.NoError(t, eval.AssignPlan(context.Background(), userID, "starter"))

	svc := finance.NewService(repo, eval, finance.WithClock(func() time.Time { return now }))
	return svc, userID
}

func TestServiceRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("records under quota", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		tx, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind:        finance.KindExpense,
			AmountCents: 1250,
			Category:    " groceries ",
			Note:        "weekly shop",
		})
		require.NoError(t, err)
		assert.Equal(t, "groceries", tx.Category)
		assert.Equal(t, int64(1250), tx.AmountCents)
		assert.Equal(t, now, tx.OccurredAt)
	})

	t.Run("denies at quota", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		for i := 0; i < 5; i++ {
			_, err := svc.Record(ctx, userID, finance.RecordParams{
				Kind: finance.KindExpense, AmountCents: 100, Category: "misc",
			})
			require.NoError(t, err)
		}

		_, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind: finance.KindExpense, AmountCents: 100, Category: "misc",
		})
		var denied *entitlement.DeniedError
		require.ErrorAs(t, err, &denied)
		assert.Contains(t, denied.Decision.Message, "limit reached")
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)

		_, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind: "transfer", AmountCents: 100, Category: "misc",
		})
		require.ErrorIs(t, err, finance.ErrInvalidKind)

		_, err = svc.Record(ctx, userID, finance.RecordParams{
			Kind: finance.KindIncome, AmountCents: 0, Category: "misc",
		})
		require.ErrorIs(t, err, finance.ErrInvalidAmount)

		_, err = svc.Record(ctx, userID, finance.RecordParams{
			Kind: finance.KindIncome, AmountCents: 100, Category: "  ",
		})
		require.ErrorIs(t, err, finance.ErrCategoryRequired)
	})
}

func TestServiceSetBudget(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("normalizes month", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		b, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
			Category:   "groceries",
			Month:      time.Date(2026, time.March, 17, 9, 30, 0, 0, time.UTC),
			LimitCents: 40000,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), b.Month)
	})

	t.Run("one budget per category per month", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		_, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
			Category: "groceries", LimitCents: 40000,
		})
		require.NoError(t, err)

		_, err = svc.SetBudget(ctx, userID, finance.SetBudgetParams{
			Category: "groceries", LimitCents: 50000,
		})
		require.ErrorIs(t, err, finance.ErrDuplicateBudget)
	})

	t.Run("denies at quota", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		for _, cat := range []string{"groceries", "transport"} {
			_, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
				Category: cat, LimitCents: 10000,
			})
			require.NoError(t, err)
		}

		_, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
			Category: "dining", LimitCents: 10000,
		})
		var denied *entitlement.DeniedError
		require.ErrorAs(t, err, &denied)
	})
}

func TestServiceMonthlySummary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	svc, userID := newFixture(t, now)

	record := func(kind finance.Kind, cents int64, category string, at time.Time) {
		t.Helper()
		_, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind: kind, AmountCents: cents, Category: category, OccurredAt: at,
		})
		require.NoError(t, err)
	}

	record(finance.KindIncome, 300000, "salary", now)
	record(finance.KindExpense, 25000, "groceries", now.AddDate(0, 0, -3))
	record(finance.KindExpense, 20000, "groceries", now.AddDate(0, 0, -1))
	// Previous month, must not appear in the summary.
	record(finance.KindExpense, 9999, "groceries", now.AddDate(0, -1, 0))

	_, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
		Category: "groceries", LimitCents: 40000,
	})
	require.NoError(t, err)

	summary, err := svc.MonthlySummary(ctx, userID, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), summary.Month)
	assert.Equal(t, int64(300000), summary.IncomeCents)
	assert.Equal(t, int64(45000), summary.ExpenseCents)
	assert.Equal(t, int64(255000), summary.NetCents)

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "groceries", summary.Categories[0].Category)
	assert.Equal(t, int64(45000), summary.Categories[0].ExpenseCents)
	assert.Equal(t, "salary", summary.Categories[1].Category)
	assert.Equal(t, int64(300000), summary.Categories[1].IncomeCents)

	require.Len(t, summary.Budgets, 1)
	status := summary.Budgets[0]
	assert.Equal(t, int64(45000), status.SpentCents)
	assert.True(t, status.Exceeded)
	assert.Equal(t, 100, status.UsedPercent)
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("deleting a transaction frees quota", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		var last *finance.Transaction
		for i := 0; i < 5; i++ {
			tx, err := svc.Record(ctx, userID, finance.RecordParams{
				Kind: finance.KindExpense, AmountCents: 100, Category: "misc",
			})
			require.NoError(t, err)
			last = tx
		}

		require.NoError(t, svc.DeleteTransaction(ctx, userID, last.ID))

		_, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind: finance.KindExpense, AmountCents: 100, Category: "misc",
		})
		require.NoError(t, err)
	})

	t.Run("cannot delete another user's rows", func(t *testing.T) {
		t.Parallel()

		svc, userID := newFixture(t, now)
		tx, err := svc.Record(ctx, userID, finance.RecordParams{
			Kind: finance.KindExpense, AmountCents: 100, Category: "misc",
		})
		require.NoError(t, err)

		err = svc.DeleteTransaction(ctx, uuid.New(), tx.ID)
		require.ErrorIs(t, err, finance.ErrTransactionNotFound)

		b, err := svc.SetBudget(ctx, userID, finance.SetBudgetParams{
			Category: "misc", LimitCents: 1000,
		})
		require.NoError(t, err)

		err = svc.DeleteBudget(ctx, uuid.New(), b.ID)
		require.ErrorIs(t, err, finance.ErrBudgetNotFound)
	})
}
