// Package entitlement enforces per-plan resource quotas and feature flags
// across LifeHub's feature services.
//
// The Evaluator answers three questions: may this user create one more of
// a resource (CheckCanCreate), does this user's plan enable a feature
// (HasFeature), and move this user to another plan (AssignPlan). Checks
// never fail with an error; data-access problems degrade to a deny with a
// user-facing message, so feature services only ever branch on the
// decision.
//
// Usage counts come from CounterFuncs registered by the owning services at
// wiring time; the Evaluator never reaches into feature tables itself.
// Plan and subscription reads go through cache-aside store decorators; the
// mutating operations (AssignPlan, admin SavePlan) own the corresponding
// invalidation.
package entitlement
