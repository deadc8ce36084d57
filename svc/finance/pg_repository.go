package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifehubapp/lifehub/pkg/pg"
)

// PGRepository is the Postgres-backed finance store.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	if pool == nil {
		panic("finance: pgx pool is required")
	}
	return &PGRepository{pool: pool}
}

func (r *PGRepository) CreateTransaction(ctx context.Context, tx *Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, user_id, kind, amount_cents, category, note, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.UserID, tx.Kind, tx.AmountCents, tx.Category, tx.Note, tx.OccurredAt, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("finance: insert transaction: %w", err)
	}
	return nil
}

func (r *PGRepository) TransactionByID(ctx context.Context, userID, txID uuid.UUID) (*Transaction, error) {
	var tx Transaction
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, kind, amount_cents, category, note, occurred_at, created_at
		FROM transactions WHERE id = $1 AND user_id = $2`, txID, userID).
		Scan(&tx.ID, &tx.UserID, &tx.Kind, &tx.AmountCents, &tx.Category, &tx.Note,
			&tx.OccurredAt, &tx.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("finance: load transaction: %w", err)
	}
	return &tx, nil
}

func (r *PGRepository) ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, amount_cents, category, note, occurred_at, created_at
		FROM transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at DESC`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("finance: list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Kind, &tx.AmountCents, &tx.Category,
			&tx.Note, &tx.OccurredAt, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("finance: scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *PGRepository) DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2`, txID, userID)
	if err != nil {
		return fmt.Errorf("finance: delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *PGRepository) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM transactions WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("finance: count transactions: %w", err)
	}
	return n, nil
}

func (r *PGRepository) CreateBudget(ctx context.Context, b *Budget) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO budgets (id, user_id, category, month, limit_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.UserID, b.Category, b.Month, b.LimitCents, b.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateBudget
		}
		return fmt.Errorf("finance: insert budget: %w", err)
	}
	return nil
}

func (r *PGRepository) BudgetsForMonth(ctx context.Context, userID uuid.UUID, month time.Time) ([]Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, category, month, limit_cents, created_at
		FROM budgets WHERE user_id = $1 AND month = $2
		ORDER BY category`, userID, month)
	if err != nil {
		return nil, fmt.Errorf("finance: list budgets: %w", err)
	}
	defer rows.Close()

	var out []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Month,
			&b.LimitCents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("finance: scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PGRepository) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("finance: delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *PGRepository) CountBudgets(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM budgets WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("finance: count budgets: %w", err)
	}
	return n, nil
}
