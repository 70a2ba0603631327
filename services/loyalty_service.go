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
	"gorm.io/gorm/clause"
)

type LoyaltyService struct {
	DB     *gorm.DB
	Config loyalty.Config
}

func NewLoyaltyService(db *gorm.DB, cfg loyalty.Config) *LoyaltyService {
	return &LoyaltyService{DB: db, Config: cfg}
}

// lockForUpdate applies a row lock on backends that support it. SQLite (used
// in tests) rejects FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// EnsureAccount ensures a LoyaltyAccount row exists for the customer (idempotent).
func (s *LoyaltyService) EnsureAccount(customerID string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := s.DB.Where("customer_id = ?", customerID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var customer models.Customer
		if err := s.DB.First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, loyalty.ErrCustomerNotFound
			}
			return nil, err
		}
		account = models.LoyaltyAccount{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			Points:     0,
			Tier:       s.Config.TierForPoints(0),
		}
		if err := s.DB.Create(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AccruePurchase converts a purchase into points atomically: ledger entry,
// balance + lifetime-earned update, tier recompute. Returns the updated account.
func (s *LoyaltyService) AccruePurchase(customerID, orderID string, amount float64) (*models.LoyaltyAccount, error) {
	var customer models.Customer
	if err := s.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrCustomerNotFound
		}
		return nil, err
	}

	if _, err := s.EnsureAccount(customerID); err != nil {
		return nil, err
	}

	earned := s.Config.PointsForPurchase(amount, customer.Segment)

	var updated *models.LoyaltyAccount
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := lockForUpdate(tx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
			return err
		}

		if earned > 0 {
			entry := models.LoyaltyTransaction{
				ID:          uuid.NewString(),
				AccountID:   account.ID,
				Type:        models.TransactionEarned,
				Points:      earned,
				Description: fmt.Sprintf("Points earned from order %s", orderID),
				OrderID:     &orderID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}

			account.Points += earned
			account.TotalEarned += earned
		}

		newTier := s.Config.TierForPoints(account.TotalEarned)
		if models.TierIndex(newTier) > models.TierIndex(account.Tier) {
			now := time.Now()
			account.Tier = newTier
			account.LastTierUpAt = &now
		}

		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		updated = &models.LoyaltyAccount{}
		*updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💰 Accrual: customer=%s order=%s amount=%.2f segment=%s earned=%d balance=%d tier=%s",
		customerID, orderID, amount, customer.Segment, earned, updated.Points, updated.Tier)

	return updated, nil
}

// AdjustPoints applies a manual admin grant or deduction through the ledger.
// A deduction below zero is rejected before anything is written.
func (s *LoyaltyService) AdjustPoints(customerID string, delta int64, reason string) (*models.LoyaltyAccount, error) {
	if _, err := s.EnsureAccount(customerID); err != nil {
		return nil, err
	}

	var updated *models.LoyaltyAccount
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := lockForUpdate(tx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
			return err
		}

		if account.Points+delta < 0 {
			return loyalty.ErrInsufficientPoints
		}

		entry := models.LoyaltyTransaction{
			ID:          uuid.NewString(),
			AccountID:   account.ID,
			Type:        models.TransactionAdjusted,
			Points:      delta,
			Description: reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		account.Points += delta
		if delta > 0 {
			account.TotalEarned += delta
		}
		newTier := s.Config.TierForPoints(account.TotalEarned)
		if models.TierIndex(newTier) > models.TierIndex(account.Tier) {
			now := time.Now()
			account.Tier = newTier
			account.LastTierUpAt = &now
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		history := models.LoyaltyHistory{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			Action:     models.HistoryPointsAdjusted,
			Detail:     fmt.Sprintf("Manual adjustment of %+d points: %s", delta, reason),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		updated = &models.LoyaltyAccount{}
		*updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AccountOverview bundles the account with derived tier progress.
type AccountOverview struct {
	Account  *models.LoyaltyAccount `json:"account"`
	Progress loyalty.TierProgress   `json:"progress"`
}

// GetAccountOverview returns the account (created on first access) plus
// progress toward the next tier.
func (s *LoyaltyService) GetAccountOverview(customerID string) (*AccountOverview, error) {
	account, err := s.EnsureAccount(customerID)
	if err != nil {
		return nil, err
	}
	return &AccountOverview{
		Account:  account,
		Progress: s.Config.Progress(account.TotalEarned),
	}, nil
}

// GetHistory returns the paginated ledger for a customer, newest first.
func (s *LoyaltyService) GetHistory(customerID string, page, size int) (map[string]interface{}, error) {
	account, err := s.EnsureAccount(customerID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := s.DB.Model(&models.LoyaltyTransaction{}).
		Where("account_id = ?", account.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.LoyaltyTransaction
	if err := s.DB.Where("account_id = ?", account.ID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return map[string]interface{}{
		"transactions": entries,
		"page":         page,
		"size":         size,
		"total_items":  total,
		"total_pages":  totalPages,
	}, nil
}

// RecalculateBalance re-derives the cached balance from the ledger sum and
// repairs the account row if it drifted. Returns the corrected account and
// whether a repair was needed. The ledger is ground truth.
func (s *LoyaltyService) RecalculateBalance(customerID string) (*models.LoyaltyAccount, bool, error) {
	var repaired bool
	var updated *models.LoyaltyAccount

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := lockForUpdate(tx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loyalty.ErrAccountNotFound
			}
			return err
		}

		var sum struct {
			Total int64
		}
		if err := tx.Model(&models.LoyaltyTransaction{}).
			Select("COALESCE(SUM(points), 0) AS total").
			Where("account_id = ?", account.ID).
			Scan(&sum).Error; err != nil {
			return err
		}

		if account.Points != sum.Total {
			log.Printf("⚠️  Balance drift for account %s: cached=%d ledger=%d — repairing",
				account.ID, account.Points, sum.Total)
			account.Points = sum.Total
			if err := tx.Save(&account).Error; err != nil {
				return err
			}
			repaired = true
		}

		updated = &models.LoyaltyAccount{}
		*updated = account
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated, repaired, nil
}

// ExpireOverdueClaims flips ACTIVE claims past their expiry to EXPIRED.
// Returns how many claims were expired. The eligibility evaluator does not
// depend on this sweep — it checks expires_at itself.
func (s *LoyaltyService) ExpireOverdueClaims() (int64, error) {
	result := s.DB.Model(&models.RewardClaim{}).
		Where("status = ? AND expires_at <= ?", models.ClaimStatusActive, time.Now()).
		Update("status", models.ClaimStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
