package loyalty

import "errors"

// Lookup failures (map to 404 at the HTTP layer).
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrAccountNotFound  = errors.New("loyalty account not found")
	ErrRewardNotFound   = errors.New("reward not found")
)

// Eligibility failures, one per check in EvaluateClaim's fixed order.
// All are expected business conditions, never generalized into a single error.
var (
	ErrRewardInactive        = errors.New("reward is not active")
	ErrRewardNotYetAvailable = errors.New("reward is not yet available")
	ErrRewardExpired         = errors.New("reward validity period has ended")
	ErrTierTooLow            = errors.New("customer tier is below the reward's minimum tier")
	ErrInsufficientPoints    = errors.New("insufficient points balance")
	ErrUsageLimitReached     = errors.New("reward usage limit has been reached")
	ErrDuplicateActiveClaim  = errors.New("customer already has an active claim for this reward")
)
