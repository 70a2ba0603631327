package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"loyalty-service/loyalty"
	"loyalty-service/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.LoyaltyAccount{},
		&models.Reward{},
		&models.RewardClaim{},
		&models.LoyaltyTransaction{},
		&models.LoyaltyHistory{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func newTestService(t *testing.T) *LoyaltyService {
	t.Helper()
	return NewLoyaltyService(newTestDB(t), loyalty.DefaultConfig)
}

func seedCustomer(t *testing.T, db *gorm.DB, segment models.CustomerSegment) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ID:           uuid.NewString(),
		Name:         "Test Customer",
		Email:        "customer@example.com",
		Segment:      segment,
		IsActive:     true,
		LastSyncedAt: time.Now(),
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return customer
}

func seedReward(t *testing.T, db *gorm.DB, mutate func(*models.Reward)) *models.Reward {
	t.Helper()

	reward := &models.Reward{
		ID:         uuid.NewString(),
		Name:       "Test Reward",
		Slug:       "test-reward-" + uuid.NewString()[:8],
		Type:       models.RewardTypeDiscount,
		PointsCost: 200,
		MinTier:    models.TierBronze,
		IsActive:   true,
	}
	if mutate != nil {
		mutate(reward)
	}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}
	return reward
}

// seedBalance funds an account through the ledger so the cached-balance
// invariant holds from the start.
func seedBalance(t *testing.T, s *LoyaltyService, customerID string, points int64) {
	t.Helper()
	if _, err := s.AdjustPoints(customerID, points, "test seed"); err != nil {
		t.Fatalf("failed to seed balance: %v", err)
	}
}
