package loyalty

import (
	"errors"
	"testing"
	"time"

	"loyalty-service/models"
)

func eligibleAccount() *models.LoyaltyAccount {
	return &models.LoyaltyAccount{
		ID:          "acct-1",
		CustomerID:  "cust-1",
		Points:      1_000,
		TotalEarned: 6_000,
		Tier:        models.TierGold,
	}
}

func claimableReward() *models.Reward {
	return &models.Reward{
		ID:         "rwd-1",
		Name:       "Free shipping",
		Type:       models.RewardTypeDiscount,
		PointsCost: 500,
		MinTier:    models.TierBronze,
		IsActive:   true,
	}
}

func TestEvaluateClaim_Eligible(t *testing.T) {
	err := DefaultConfig.EvaluateClaim(eligibleAccount(), claimableReward(), nil, time.Now())
	if err != nil {
		t.Fatalf("expected eligible, got %v", err)
	}
}

func TestEvaluateClaim_CheckOrder(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	limit := int64(1)

	cases := []struct {
		name    string
		mutate  func(a *models.LoyaltyAccount, r *models.Reward)
		wantErr error
	}{
		{
			"inactive",
			func(a *models.LoyaltyAccount, r *models.Reward) { r.IsActive = false },
			ErrRewardInactive,
		},
		{
			"not yet available",
			func(a *models.LoyaltyAccount, r *models.Reward) { r.ValidFrom = &future },
			ErrRewardNotYetAvailable,
		},
		{
			"expired",
			func(a *models.LoyaltyAccount, r *models.Reward) { r.ValidUntil = &past },
			ErrRewardExpired,
		},
		{
			"tier too low",
			func(a *models.LoyaltyAccount, r *models.Reward) { r.MinTier = models.TierPlatinum },
			ErrTierTooLow,
		},
		{
			"insufficient points",
			func(a *models.LoyaltyAccount, r *models.Reward) { a.Points = 499 },
			ErrInsufficientPoints,
		},
		{
			"usage limit reached",
			func(a *models.LoyaltyAccount, r *models.Reward) {
				r.UsageLimit = &limit
				r.TimesUsed = 1
			},
			ErrUsageLimitReached,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account := eligibleAccount()
			reward := claimableReward()
			tc.mutate(account, reward)
			err := DefaultConfig.EvaluateClaim(account, reward, nil, now)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

// Inactive wins over every later failure: first failing check decides.
func TestEvaluateClaim_FirstFailureWins(t *testing.T) {
	account := eligibleAccount()
	account.Points = 0
	account.Tier = models.TierBronze

	reward := claimableReward()
	reward.IsActive = false
	reward.MinTier = models.TierDiamond

	err := DefaultConfig.EvaluateClaim(account, reward, nil, time.Now())
	if !errors.Is(err, ErrRewardInactive) {
		t.Fatalf("got %v, want ErrRewardInactive", err)
	}
}

// BRONZE account, 0 points, GOLD reward costing 500: tier is checked before balance.
func TestEvaluateClaim_TierBeforeBalance(t *testing.T) {
	account := eligibleAccount()
	account.Points = 0
	account.Tier = models.TierBronze

	reward := claimableReward()
	reward.MinTier = models.TierGold
	reward.PointsCost = 500

	err := DefaultConfig.EvaluateClaim(account, reward, nil, time.Now())
	if !errors.Is(err, ErrTierTooLow) {
		t.Fatalf("got %v, want ErrTierTooLow", err)
	}
}

// Exhausted usage limit rejects even a fully eligible customer.
func TestEvaluateClaim_UsageLimitBeatsEligibleCustomer(t *testing.T) {
	reward := claimableReward()
	limit := int64(1)
	reward.UsageLimit = &limit
	reward.TimesUsed = 1

	err := DefaultConfig.EvaluateClaim(eligibleAccount(), reward, nil, time.Now())
	if !errors.Is(err, ErrUsageLimitReached) {
		t.Fatalf("got %v, want ErrUsageLimitReached", err)
	}
}

func TestEvaluateClaim_DuplicateActiveClaim(t *testing.T) {
	now := time.Now()

	active := &models.RewardClaim{
		Status:    models.ClaimStatusActive,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	err := DefaultConfig.EvaluateClaim(eligibleAccount(), claimableReward(), active, now)
	if !errors.Is(err, ErrDuplicateActiveClaim) {
		t.Fatalf("got %v, want ErrDuplicateActiveClaim", err)
	}

	// An expired claim no longer blocks, even before the sweeper flips its status
	stale := &models.RewardClaim{
		Status:    models.ClaimStatusActive,
		ExpiresAt: now.Add(-time.Minute),
	}
	if err := DefaultConfig.EvaluateClaim(eligibleAccount(), claimableReward(), stale, now); err != nil {
		t.Fatalf("stale claim should not block, got %v", err)
	}

	// A used claim never blocks
	used := &models.RewardClaim{
		Status:    models.ClaimStatusUsed,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	if err := DefaultConfig.EvaluateClaim(eligibleAccount(), claimableReward(), used, now); err != nil {
		t.Fatalf("used claim should not block, got %v", err)
	}
}

// Same state in, same verdict out — the evaluator is pure.
func TestEvaluateClaim_Idempotent(t *testing.T) {
	account := eligibleAccount()
	account.Points = 10
	reward := claimableReward()
	now := time.Now()

	first := DefaultConfig.EvaluateClaim(account, reward, nil, now)
	second := DefaultConfig.EvaluateClaim(account, reward, nil, now)
	if !errors.Is(first, ErrInsufficientPoints) || !errors.Is(second, ErrInsufficientPoints) {
		t.Fatalf("verdicts differ: %v vs %v", first, second)
	}
}
