package models

import "time"

// ClaimStatus is the lifecycle state of a RewardClaim.
// Allowed transitions: ACTIVE → USED, ACTIVE → EXPIRED. Claims are never deleted.
type ClaimStatus string

const (
	ClaimStatusActive  ClaimStatus = "ACTIVE"
	ClaimStatusUsed    ClaimStatus = "USED"
	ClaimStatusExpired ClaimStatus = "EXPIRED"
)

// RewardClaim = one redemption of a Reward by a LoyaltyAccount
type RewardClaim struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID string `gorm:"type:uuid;index;not null" json:"account_id"`
	RewardID  string `gorm:"type:uuid;index;not null" json:"reward_id"`

	PointsUsed int64       `gorm:"not null" json:"points_used"`
	Status     ClaimStatus `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`

	ClaimedAt time.Time  `gorm:"not null" json:"claimed_at"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	OrderID   *string    `gorm:"type:uuid" json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Blocks reports whether this claim prevents the same account from claiming
// the reward again: it must still be ACTIVE and not past its expiry.
func (c *RewardClaim) Blocks(now time.Time) bool {
	return c.Status == ClaimStatusActive && c.ExpiresAt.After(now)
}
