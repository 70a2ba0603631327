package models

import "time"

// HistoryAction tags an audit trail entry
type HistoryAction string

const (
	HistoryRewardClaimed  HistoryAction = "reward_claimed"
	HistoryPointsAdjusted HistoryAction = "points_adjusted"
	HistoryClaimExpired   HistoryAction = "claim_expired"
)

// LoyaltyHistory is the human-readable audit trail, written alongside the
// ledger but separate from it (the ledger carries balances, this carries intent).
type LoyaltyHistory struct {
	ID         string        `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID string        `gorm:"type:uuid;index;not null" json:"customer_id"`
	Action     HistoryAction `gorm:"type:varchar(32);not null" json:"action"`
	Detail     string        `gorm:"type:text" json:"detail"`
	RewardID   *string       `gorm:"type:uuid" json:"reward_id,omitempty"`
	ClaimID    *string       `gorm:"type:uuid" json:"claim_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
