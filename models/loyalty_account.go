package models

import (
	"time"

	"gorm.io/gorm"
)

// Tier is an ordered loyalty level. Ordering is by TierIndex, not by string value.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
	TierDiamond  Tier = "DIAMOND"
)

// TierOrder lists tiers from lowest to highest.
var TierOrder = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond}

// TierIndex returns the position of t in TierOrder (BRONZE=0 … DIAMOND=4).
// Unknown values map to 0 so a corrupt row never unlocks anything.
func TierIndex(t Tier) int {
	for i, tier := range TierOrder {
		if tier == t {
			return i
		}
	}
	return 0
}

// LoyaltyAccount is one customer's points account.
// Points and Tier are cached projections of the loyalty_transactions ledger —
// the ledger is authoritative and the cache must stay recomputable from it.
type LoyaltyAccount struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID string `gorm:"type:uuid;uniqueIndex;not null" json:"customer_id"`

	Points        int64 `json:"points" gorm:"not null;default:0"`
	TotalEarned   int64 `json:"total_earned" gorm:"not null;default:0"`
	TotalRedeemed int64 `json:"total_redeemed" gorm:"not null;default:0"`
	Tier          Tier  `json:"tier" gorm:"type:varchar(16);not null;default:'BRONZE'"`

	LastTierUpAt *time.Time `json:"last_tier_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times plus soft delete.
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
