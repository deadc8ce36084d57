package finance

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known transaction kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single money movement. Amounts are integer cents to
// keep arithmetic exact.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Kind        Kind      `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Budget caps expense spending for one category in one calendar month.
// Month is normalized to the first day of the month, midnight UTC.
type Budget struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Category   string    `json:"category"`
	Month      time.Time `json:"month"`
	LimitCents int64     `json:"limit_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// CategoryTotal is one row of the monthly per-category breakdown.
type CategoryTotal struct {
	Category     string `json:"category"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// BudgetStatus pairs a budget with the month's actual spend in its
// category.
type BudgetStatus struct {
	Budget     Budget `json:"budget"`
	SpentCents int64  `json:"spent_cents"`
	// Percentage of the limit used, capped at 100. A zero limit counts
	// as fully used once anything is spent.
	UsedPercent int  `json:"used_percent"`
	Exceeded    bool `json:"exceeded"`
}

// Summary aggregates one user's month.
type Summary struct {
	Month        time.Time       `json:"month"`
	IncomeCents  int64           `json:"income_cents"`
	ExpenseCents int64           `json:"expense_cents"`
	NetCents     int64           `json:"net_cents"`
	Categories   []CategoryTotal `json:"categories"`
	Budgets      []BudgetStatus  `json:"budgets"`
}

// monthOf normalizes t to the first day of its month, midnight UTC.
func monthOf(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
