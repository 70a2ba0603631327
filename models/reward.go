package models

import (
	"time"
)

// RewardType indicates what the customer gets when redeeming
type RewardType string

const (
	RewardTypeDiscount    RewardType = "DISCOUNT"
	RewardTypeFreeProduct RewardType = "FREE_PRODUCT"
)

// Reward represents a redeemable catalog entry
type Reward struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Type        RewardType `gorm:"not null" json:"type"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"type:text" json:"image_url"`

	PointsCost int64 `gorm:"not null" json:"points_cost"`
	MinTier    Tier  `gorm:"type:varchar(16);not null;default:'BRONZE'" json:"min_tier"`

	// Type-specific payload: DiscountPercent for DISCOUNT, ProductID for FREE_PRODUCT
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	ProductID       *string  `gorm:"type:uuid" json:"product_id,omitempty"`

	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	UsageLimit *int64 `json:"usage_limit,omitempty"` // nil = unlimited
	TimesUsed  int64  `gorm:"not null;default:0" json:"times_used"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	Timestamps
}

// UsageRemaining returns claims left under the usage limit, or nil if unlimited.
func (r *Reward) UsageRemaining() *int64 {
	if r.UsageLimit == nil {
		return nil
	}
	remaining := *r.UsageLimit - r.TimesUsed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
