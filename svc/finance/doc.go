// Package finance tracks income and expense transactions in integer cents,
// monthly category budgets, and builds the month summary. New transactions
// and budgets are gated by the entitlement evaluator.
package finance
