package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("finance: transaction not found")
	ErrBudgetNotFound      = errors.New("finance: budget not found")
	ErrInvalidKind         = errors.New("finance: kind must be income or expense")
	ErrInvalidAmount       = errors.New("finance: amount must be a positive number of cents")
	ErrCategoryRequired    = errors.New("finance: category is required")
	ErrInvalidLimit        = errors.New("finance: budget limit must be a positive number of cents")
	ErrDuplicateBudget     = errors.New("finance: a budget for this category and month already exists")
)
