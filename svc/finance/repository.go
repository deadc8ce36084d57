package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists transactions and budgets.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	TransactionByID(ctx context.Context, userID, txID uuid.UUID) (*Transaction, error)
	// ListTransactions returns the user's transactions in the half-open
	// window [from, to), newest first.
	ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error
	CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateBudget(ctx context.Context, b *Budget) error
	// BudgetsForMonth returns the user's budgets whose Month equals the
	// given normalized month.
	BudgetsForMonth(ctx context.Context, userID uuid.UUID, month time.Time) ([]Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	CountBudgets(ctx context.Context, userID uuid.UUID) (int64, error)
}
