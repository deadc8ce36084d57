package entitlement

import "errors"

// DeniedError carries a deny Decision across a feature service's error
// return, so HTTP modules can surface Decision.Message verbatim.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return e.Decision.Message
}

// Denied wraps a deny decision into an error. Panics if the decision
// allows: an allowed decision is not an error.
func Denied(d Decision) *DeniedError {
	if d.Allowed {
		panic("entitlement: Denied called with an allowed decision")
	}
	return &DeniedError{Decision: d}
}

// Domain errors for entitlement operations.
var (
	// Plan errors
	ErrPlanNotFound = errors.New("entitlement: plan not found")
	ErrPlanInactive = errors.New("entitlement: plan is not active")

	// Subscription errors
	ErrNoActiveSubscription = errors.New("entitlement: no active subscription")

	// Counter errors
	ErrNoCounterRegistered = errors.New("entitlement: no counter registered for resource")
	ErrFailedToCountUsage  = errors.New("entitlement: failed to count resource usage")

	// Downgrade errors
	ErrDowngradeNotPossible = errors.New("entitlement: current usage exceeds target plan quota")
)
