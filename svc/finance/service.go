package finance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/pkg/logger"
	"github.com/lifehubapp/lifehub/svc/entitlement"
)

// Entitlements is the slice of the evaluator the finance service needs.
type Entitlements interface {
	CheckCanCreate(ctx context.Context, userID uuid.UUID, res entitlement.Resource) entitlement.Decision
}

// Service owns personal finance tracking: transactions, monthly budgets
// and the month summary. Transaction and budget creation are quota-checked
// against the user's plan.
type Service struct {
	repo         Repository
	entitlements Entitlements
	log          *slog.Logger
	now          func() time.Time
}

// Option configures the finance service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the finance service. Panics on nil dependencies.
func NewService(repo Repository, entitlements Entitlements, opts ...Option) *Service {
	if repo == nil {
		panic("finance: Repository is required")
	}
	if entitlements == nil {
		panic("finance: Entitlements is required")
	}
	s := &Service{
		repo:         repo,
		entitlements: entitlements,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordParams carries the user-supplied fields for a new transaction.
type RecordParams struct {
	Kind        Kind
	AmountCents int64
	Category    string
	Note        string
	OccurredAt  time.Time // zero means now
}

// Record adds a transaction after an entitlement check. A deny comes back
// as *entitlement.DeniedError carrying the user-facing message.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, params RecordParams) (*Transaction, error) {
	if !params.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if params.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	category := strings.TrimSpace(params.Category)
	if category == "" {
		return nil, ErrCategoryRequired
	}

	if decision := s.entitlements.CheckCanCreate(ctx, userID, entitlement.ResourceTransaction); !decision.Allowed {
		return nil, entitlement.Denied(decision)
	}

	now := s.now()
	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	tx := &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        params.Kind,
		AmountCents: params.AmountCents,
		Category:    category,
		Note:        strings.TrimSpace(params.Note),
		OccurredAt:  occurredAt.UTC(),
		CreatedAt:   now,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("finance: record transaction: %w", err)
	}

	s.log.InfoContext(ctx, "transaction recorded",
		logger.UserID(userID), slog.String("kind", string(tx.Kind)),
		slog.String("category", tx.Category), logger.Component("finance"))
	return tx, nil
}

// Transactions lists the user's transactions for a calendar month.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, month time.Time) ([]Transaction, error) {
	from := monthOf(month)
	return s.repo.ListTransactions(ctx, userID, from, from.AddDate(0, 1, 0))
}

// DeleteTransaction removes one transaction owned by the user.
func (s *Service) DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, userID, txID)
}

// SetBudgetParams carries the user-supplied fields for a new budget.
type SetBudgetParams struct {
	Category   string
	Month      time.Time // any time within the month; zero means now
	LimitCents int64
}

// SetBudget creates a budget for a category and month after an entitlement
// check. One budget per category per month.
func (s *Service) SetBudget(ctx context.Context, userID uuid.UUID, params SetBudgetParams) (*Budget, error) {
	category := strings.TrimSpace(params.Category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if params.LimitCents <= 0 {
		return nil, ErrInvalidLimit
	}

	if decision := s.entitlements.CheckCanCreate(ctx, userID, entitlement.ResourceBudget); !decision.Allowed {
		return nil, entitlement.Denied(decision)
	}

	now := s.now()
	month := params.Month
	if month.IsZero() {
		month = now
	}

	b := &Budget{
		ID:         uuid.New(),
		UserID:     userID,
		Category:   category,
		Month:      monthOf(month),
		LimitCents: params.LimitCents,
		CreatedAt:  now,
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "budget set",
		logger.UserID(userID), slog.String("category", b.Category),
		logger.Component("finance"))
	return b, nil
}

// DeleteBudget removes one budget owned by the user.
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, userID, budgetID)
}

// MonthlySummary aggregates income, expense and budget utilisation for the
// month containing the given time.
func (s *Service) MonthlySummary(ctx context.Context, userID uuid.UUID, month time.Time) (*Summary, error) {
	from := monthOf(month)
	txs, err := s.repo.ListTransactions(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("finance: load transactions: %w", err)
	}
	budgets, err := s.repo.BudgetsForMonth(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("finance: load budgets: %w", err)
	}

	summary := &Summary{Month: from}
	byCategory := make(map[string]*CategoryTotal)
	for _, tx := range txs {
		total, ok := byCategory[tx.Category]
		if !ok {
			total = &CategoryTotal{Category: tx.Category}
			byCategory[tx.Category] = total
		}
		switch tx.Kind {
		case KindIncome:
			summary.IncomeCents += tx.AmountCents
			total.IncomeCents += tx.AmountCents
		case KindExpense:
			summary.ExpenseCents += tx.AmountCents
			total.ExpenseCents += tx.AmountCents
		}
	}
	summary.NetCents = summary.IncomeCents - summary.ExpenseCents

	summary.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, total := range byCategory {
		summary.Categories = append(summary.Categories, *total)
	}
	slices.SortFunc(summary.Categories, func(a, b CategoryTotal) int {
		return strings.Compare(a.Category, b.Category)
	})

	summary.Budgets = make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		if total, ok := byCategory[b.Category]; ok {
			spent = total.ExpenseCents
		}
		summary.Budgets = append(summary.Budgets, budgetStatus(b, spent))
	}
	slices.SortFunc(summary.Budgets, func(a, b BudgetStatus) int {
		return strings.Compare(a.Budget.Category, b.Budget.Category)
	})

	return summary, nil
}

// TransactionCounter exposes the transaction count for the entitlement
// registry.
func (s *Service) TransactionCounter() entitlement.CounterFunc {
	return s.repo.CountTransactions
}

// BudgetCounter exposes the budget count for the entitlement registry.
func (s *Service) BudgetCounter() entitlement.CounterFunc {
	return s.repo.CountBudgets
}

func budgetStatus(b Budget, spent int64) BudgetStatus {
	status := BudgetStatus{
		Budget:     b,
		SpentCents: spent,
		Exceeded:   spent > b.LimitCents,
	}
	switch {
	case b.LimitCents <= 0:
		if spent > 0 {
			status.UsedPercent = 100
		}
	default:
		status.UsedPercent = min(int((spent*100)/b.LimitCents), 100)
	}
	return status
}
