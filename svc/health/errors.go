package health

import "errors"

var (
	ErrLogNotFound           = errors.New("health: wellness log not found")
	ErrInvalidMood           = errors.New("health: mood must be between 1 and 5")
	ErrInvalidSleep          = errors.New("health: sleep hours must be between 0 and 24")
	ErrInvalidWater          = errors.New("health: water glasses cannot be negative")
	ErrFutureLog             = errors.New("health: cannot log a future day")
	ErrInsightsNotAvailable  = errors.New("health: insights require a plan with the ai feature")
	ErrDrugNotFound          = errors.New("health: no label found for that drug")
	ErrDrugLookupUnavailable = errors.New("health: drug label lookup is temporarily unavailable")
)
