package finance

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemRepository is a Repository backed by maps, for tests.
type InMemRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*Transaction
	budgets      map[uuid.UUID]*Budget
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		transactions: make(map[uuid.UUID]*Transaction),
		budgets:      make(map[uuid.UUID]*Budget),
	}
}

func (r *InMemRepository) CreateTransaction(ctx context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *tx
	r.transactions[tx.ID] = &copied
	return nil
}

func (r *InMemRepository) TransactionByID(ctx context.Context, userID, txID uuid.UUID) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[txID]
	if !ok || tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *InMemRepository) ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Transaction
	for _, tx := range r.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.OccurredAt.Before(from) || !tx.OccurredAt.Before(to) {
			continue
		}
		out = append(out, *tx)
	}
	slices.SortFunc(out, func(a, b Transaction) int { return b.OccurredAt.Compare(a.OccurredAt) })
	return out, nil
}

func (r *InMemRepository) DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[txID]
	if !ok || tx.UserID != userID {
		return ErrTransactionNotFound
	}
	delete(r.transactions, txID)
	return nil
}

func (r *InMemRepository) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, tx := range r.transactions {
		if tx.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *InMemRepository) CreateBudget(ctx context.Context, b *Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.budgets {
		if existing.UserID == b.UserID && existing.Category == b.Category && existing.Month.Equal(b.Month) {
			return ErrDuplicateBudget
		}
	}
	copied := *b
	r.budgets[b.ID] = &copied
	return nil
}

func (r *InMemRepository) BudgetsForMonth(ctx context.Context, userID uuid.UUID, month time.Time) ([]Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Budget
	for _, b := range r.budgets {
		if b.UserID == userID && b.Month.Equal(month) {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b Budget) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *InMemRepository) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[budgetID]
	if !ok || b.UserID != userID {
		return ErrBudgetNotFound
	}
	delete(r.budgets, budgetID)
	return nil
}

func (r *InMemRepository) CountBudgets(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, b := range r.budgets {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}
