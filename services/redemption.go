package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"loyalty-service/loyalty"
	"loyalty-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimResult is returned to the caller after a successful redemption.
type ClaimResult struct {
	ClaimID          string    `json:"claim_id"`
	PointsUsed       int64     `json:"points_used"`
	RemainingBalance int64     `json:"remaining_balance"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// RedeemReward atomically converts an eligible claim request into five writes:
// a negative ledger entry, the account debit (+ lifetime redeemed), the claim
// record, the reward usage increment, and a history entry. Eligibility is
// re-evaluated inside the transaction on freshly locked rows, so two
// concurrent requests cannot both spend the same points or both take the last
// slot of a limited reward. On any failure nothing is written.
func (s *LoyaltyService) RedeemReward(customerID, rewardID string, orderID *string) (*ClaimResult, error) {
	if _, err := s.EnsureAccount(customerID); err != nil {
		return nil, err
	}

	var result *ClaimResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := lockForUpdate(tx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loyalty.ErrAccountNotFound
			}
			return err
		}

		var reward models.Reward
		if err := lockForUpdate(tx).First(&reward, "id = ?", rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loyalty.ErrRewardNotFound
			}
			return err
		}

		now := time.Now()

		var existing *models.RewardClaim
		var lastClaim models.RewardClaim
		err := tx.Where("account_id = ? AND reward_id = ? AND status = ?",
			account.ID, reward.ID, models.ClaimStatusActive).
			Order("claimed_at DESC").
			First(&lastClaim).Error
		if err == nil {
			existing = &lastClaim
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := s.Config.EvaluateClaim(&account, &reward, existing, now); err != nil {
			return err
		}

		// (a) ledger debit
		entry := models.LoyaltyTransaction{
			ID:          uuid.NewString(),
			AccountID:   account.ID,
			Type:        models.TransactionRedeemed,
			Points:      -reward.PointsCost,
			Description: fmt.Sprintf("Redeemed reward: %s", reward.Name),
			ReferenceID: &reward.ID,
			OrderID:     orderID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// (b) account debit + lifetime redeemed
		account.Points -= reward.PointsCost
		account.TotalRedeemed += reward.PointsCost
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		// (c) claim record, expiry fixed at ClaimTTL from now regardless of
		// the reward's own validity window
		claim := models.RewardClaim{
			ID:         uuid.NewString(),
			AccountID:  account.ID,
			RewardID:   reward.ID,
			PointsUsed: reward.PointsCost,
			Status:     models.ClaimStatusActive,
			ClaimedAt:  now,
			ExpiresAt:  now.Add(s.Config.ClaimTTL),
			OrderID:    orderID,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}

		// (d) reward usage counter
		reward.TimesUsed++
		if err := tx.Save(&reward).Error; err != nil {
			return err
		}

		// (e) audit entry
		history := models.LoyaltyHistory{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			Action:     models.HistoryRewardClaimed,
			Detail:     fmt.Sprintf("Claimed %q for %d points", reward.Name, reward.PointsCost),
			RewardID:   &reward.ID,
			ClaimID:    &claim.ID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		result = &ClaimResult{
			ClaimID:          claim.ID,
			PointsUsed:       claim.PointsUsed,
			RemainingBalance: account.Points,
			ExpiresAt:        claim.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 Claim: customer=%s reward=%s points=%d balance=%d claim=%s",
		customerID, rewardID, result.PointsUsed, result.RemainingBalance, result.ClaimID)

	return result, nil
}

// AnnotatedReward is a catalog entry decorated with per-customer claimability.
type AnnotatedReward struct {
	models.Reward
	CanAfford      bool                `json:"can_afford"`
	CanClaim       bool                `json:"can_claim"`
	BlockedReason  string              `json:"blocked_reason,omitempty"`
	UsageRemaining *int64              `json:"usage_remaining,omitempty"`
	ActiveClaim    *models.RewardClaim `json:"active_claim,omitempty"`
}

// ListRewardsForCustomer returns all active rewards annotated for the
// customer, ordered cheapest first then newest first.
func (s *LoyaltyService) ListRewardsForCustomer(customerID string) ([]AnnotatedReward, error) {
	account, err := s.EnsureAccount(customerID)
	if err != nil {
		return nil, err
	}

	var rewards []models.Reward
	if err := s.DB.Where("is_active = ?", true).
		Order("points_cost ASC, created_at DESC").
		Find(&rewards).Error; err != nil {
		return nil, err
	}

	var activeClaims []models.RewardClaim
	if err := s.DB.Where("account_id = ? AND status = ?", account.ID, models.ClaimStatusActive).
		Find(&activeClaims).Error; err != nil {
		return nil, err
	}
	claimsByReward := make(map[string]*models.RewardClaim, len(activeClaims))
	for i := range activeClaims {
		claimsByReward[activeClaims[i].RewardID] = &activeClaims[i]
	}

	now := time.Now()
	annotated := make([]AnnotatedReward, 0, len(rewards))
	for i := range rewards {
		r := rewards[i]
		claim := claimsByReward[r.ID]

		ar := AnnotatedReward{
			Reward:         r,
			CanAfford:      account.Points >= r.PointsCost,
			UsageRemaining: r.UsageRemaining(),
		}
		if claim != nil && claim.Blocks(now) {
			ar.ActiveClaim = claim
		}

		if err := s.Config.EvaluateClaim(account, &r, claim, now); err != nil {
			ar.BlockedReason = err.Error()
		} else {
			ar.CanClaim = true
		}
		annotated = append(annotated, ar)
	}
	return annotated, nil
}
