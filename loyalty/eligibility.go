package loyalty

import (
	"time"

	"loyalty-service/models"
)

// EvaluateClaim decides whether account may claim reward right now.
// existingClaim is the account's most recent claim for this reward, or nil.
//
// Checks run in a fixed order and the first failure wins, so callers always
// get the same specific rejection for the same state:
//
//	active → validFrom → validUntil → tier → balance → usage limit → duplicate claim
//
// The function is pure and read-only. It MUST be re-run inside the same
// transaction that performs the debit — a verdict taken outside the
// transaction can go stale under concurrent claims.
func (c Config) EvaluateClaim(account *models.LoyaltyAccount, reward *models.Reward, existingClaim *models.RewardClaim, now time.Time) error {
	if !reward.IsActive {
		return ErrRewardInactive
	}
	if reward.ValidFrom != nil && now.Before(*reward.ValidFrom) {
		return ErrRewardNotYetAvailable
	}
	if reward.ValidUntil != nil && now.After(*reward.ValidUntil) {
		return ErrRewardExpired
	}
	if models.TierIndex(account.Tier) < models.TierIndex(reward.MinTier) {
		return ErrTierTooLow
	}
	if account.Points < reward.PointsCost {
		return ErrInsufficientPoints
	}
	if reward.UsageLimit != nil && reward.TimesUsed >= *reward.UsageLimit {
		return ErrUsageLimitReached
	}
	if existingClaim != nil && existingClaim.Blocks(now) {
		return ErrDuplicateActiveClaim
	}
	return nil
}
