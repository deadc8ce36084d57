// Package user handles account registration and password authentication.
// Registration assigns the default free plan through the entitlement
// evaluator and sends a best-effort welcome email.
package user
