package entitlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifehubapp/lifehub/pkg/pg"
)

// PGPlanStore is the Postgres-backed plan catalog. Quota columns are
// nullable: NULL means unlimited, a number means a hard cap. This replaces
// the 999/9999 magic numbers sometimes used for "effectively unlimited".
type PGPlanStore struct {
	pool *pgxpool.Pool
}

func NewPGPlanStore(pool *pgxpool.Pool) *PGPlanStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PGPlanStore{pool: pool}
}

const planColumns = `id, name, description, max_habits, max_transactions, max_budgets,
	has_community, has_analytics, has_ai, price_cents, duration_days, active`

func (s *PGPlanStore) Plan(ctx context.Context, id string) (Plan, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, fmt.Errorf("entitlement: load plan %q: %w", id, err)
	}
	return plan, nil
}

func (s *PGPlanStore) ActivePlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE active ORDER BY price_cents`)
	if err != nil {
		return nil, fmt.Errorf("entitlement: load active plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("entitlement: scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *PGPlanStore) SavePlan(ctx context.Context, plan Plan) error {
	maxHabits := quotaToColumn(plan.QuotaFor(ResourceHabit))
	maxTransactions := quotaToColumn(plan.QuotaFor(ResourceTransaction))
	maxBudgets := quotaToColumn(plan.QuotaFor(ResourceBudget))

	_, err := s.pool.Exec(ctx, `
		INSERT INTO plans (id, name, description, max_habits, max_transactions, max_budgets,
			has_community, has_analytics, has_ai, price_cents, duration_days, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			max_habits = EXCLUDED.max_habits,
			max_transactions = EXCLUDED.max_transactions,
			max_budgets = EXCLUDED.max_budgets,
			has_community = EXCLUDED.has_community,
			has_analytics = EXCLUDED.has_analytics,
			has_ai = EXCLUDED.has_ai,
			price_cents = EXCLUDED.price_cents,
			duration_days = EXCLUDED.duration_days,
			active = EXCLUDED.active,
			updated_at = now()`,
		plan.ID, plan.Name, plan.Description, maxHabits, maxTransactions, maxBudgets,
		plan.HasFeature(FeatureCommunity), plan.HasFeature(FeatureAnalytics), plan.HasFeature(FeatureAI),
		plan.PriceCents, plan.DurationDays, plan.Active)
	if err != nil {
		return fmt.Errorf("entitlement: save plan %q: %w", plan.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (Plan, error) {
	var (
		plan            Plan
		maxHabits       *int64
		maxTransactions *int64
		maxBudgets      *int64
		hasCommunity    bool
		hasAnalytics    bool
		hasAI           bool
	)
	if err := row.Scan(&plan.ID, &plan.Name, &plan.Description,
		&maxHabits, &maxTransactions, &maxBudgets,
		&hasCommunity, &hasAnalytics, &hasAI,
		&plan.PriceCents, &plan.DurationDays, &plan.Active); err != nil {
		return Plan{}, err
	}

	plan.Quotas = map[Resource]Quota{
		ResourceHabit:       quotaFromColumn(maxHabits),
		ResourceTransaction: quotaFromColumn(maxTransactions),
		ResourceBudget:      quotaFromColumn(maxBudgets),
	}

	plan.Features = make([]Feature, 0, 3)
	if hasCommunity {
		plan.Features = append(plan.Features, FeatureCommunity)
	}
	if hasAnalytics {
		plan.Features = append(plan.Features, FeatureAnalytics)
	}
	if hasAI {
		plan.Features = append(plan.Features, FeatureAI)
	}

	return plan, nil
}

func quotaFromColumn(v *int64) Quota {
	if v == nil {
		return NoLimit()
	}
	return LimitOf(*v)
}

func quotaToColumn(q Quota) *int64 {
	if q.Unlimited {
		return nil
	}
	limit := q.Limit
	return &limit
}

// PGSubscriptionStore is the Postgres-backed subscription record store.
type PGSubscriptionStore struct {
	pool *pgxpool.Pool
}

func NewPGSubscriptionStore(pool *pgxpool.Pool) *PGSubscriptionStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PGSubscriptionStore{pool: pool}
}

func (s *PGSubscriptionStore) Current(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	var sub Subscription
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, plan_id, starts_at, ends_at, active, created_at, ended_at
		FROM subscriptions
		WHERE user_id = $1 AND active
		ORDER BY created_at DESC
		LIMIT 1`, userID).
		Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.StartsAt, &sub.EndsAt,
			&sub.Active, &sub.CreatedAt, &sub.EndedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNoActiveSubscription
		}
		return nil, fmt.Errorf("entitlement: load current subscription: %w", err)
	}
	return &sub, nil
}

// Supersede deactivates the user's active row and inserts the next one in
// a single transaction, so a failed insert leaves the previous
// subscription in place.
func (s *PGSubscriptionStore) Supersede(ctx context.Context, userID uuid.UUID, next *Subscription) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE subscriptions
			SET active = false, ended_at = $2
			WHERE user_id = $1 AND active`, userID, next.CreatedAt); err != nil {
			return fmt.Errorf("entitlement: deactivate current subscription: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO subscriptions (id, user_id, plan_id, starts_at, ends_at, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			next.ID, next.UserID, next.PlanID, next.StartsAt, next.EndsAt,
			next.Active, next.CreatedAt); err != nil {
			return fmt.Errorf("entitlement: insert subscription: %w", err)
		}

		return nil
	})
}
