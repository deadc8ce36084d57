package modules

import (
	"errors"
	"net/http"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/svc/entitlement"
	"github.com/lifehubapp/lifehub/svc/finance"
	"github.com/lifehubapp/lifehub/svc/habit"
	"github.com/lifehubapp/lifehub/svc/health"
	"github.com/lifehubapp/lifehub/svc/user"
)

// RespondError maps service errors onto the JSON envelope. Quota denials
// keep the evaluator's user-facing message; unknown errors come back as an
// opaque 500.
func RespondError(w http.ResponseWriter, err error) {
	var denied *entitlement.DeniedError
	if errors.As(err, &denied) {
		core.JSONErrorMessage(w,
			core.NewHTTPError(http.StatusPaymentRequired, "quota_exceeded"),
			denied.Decision.Message)
		return
	}

	switch {
	case errors.Is(err, habit.ErrNotFound),
		errors.Is(err, finance.ErrTransactionNotFound),
		errors.Is(err, finance.ErrBudgetNotFound),
		errors.Is(err, health.ErrLogNotFound),
		errors.Is(err, health.ErrDrugNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, entitlement.ErrPlanNotFound),
		errors.Is(err, entitlement.ErrNoActiveSubscription):
		core.JSONErrorMessage(w, core.ErrNotFound, err.Error())

	case errors.Is(err, user.ErrEmailAlreadyExists),
		errors.Is(err, finance.ErrDuplicateBudget),
		errors.Is(err, entitlement.ErrDowngradeNotPossible):
		core.JSONErrorMessage(w, core.ErrConflict, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials):
		core.JSONError(w, core.ErrUnauthorized)

	case errors.Is(err, health.ErrInsightsNotAvailable):
		core.JSONErrorMessage(w, core.ErrForbidden, err.Error())

	case errors.Is(err, health.ErrDrugLookupUnavailable):
		core.JSONError(w, core.ErrServiceUnavailable)

	case errors.Is(err, habit.ErrArchived),
		errors.Is(err, habit.ErrNameRequired),
		errors.Is(err, habit.ErrFutureCompletion),
		errors.Is(err, finance.ErrInvalidKind),
		errors.Is(err, finance.ErrInvalidAmount),
		errors.Is(err, finance.ErrCategoryRequired),
		errors.Is(err, finance.ErrInvalidLimit),
		errors.Is(err, health.ErrInvalidMood),
		errors.Is(err, health.ErrInvalidSleep),
		errors.Is(err, health.ErrInvalidWater),
		errors.Is(err, health.ErrFutureLog),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, entitlement.ErrPlanInactive):
		core.JSONErrorMessage(w, core.ErrUnprocessableEntity, err.Error())

	default:
		core.JSONError(w, core.ErrInternalServerError)
	}
}
