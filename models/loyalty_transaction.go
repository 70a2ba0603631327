package models

import "time"

// TransactionType tags a ledger entry
type TransactionType string

const (
	TransactionEarned   TransactionType = "EARNED"
	TransactionRedeemed TransactionType = "REDEEMED"
	TransactionAdjusted TransactionType = "ADJUSTED"
)

// LoyaltyTransaction is one append-only ledger entry. Points is signed:
// positive for accrual, negative for redemption. Entries are never mutated —
// the ledger is the source of truth for the account balance.
type LoyaltyTransaction struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID string          `gorm:"type:uuid;index;not null" json:"account_id"`
	Type      TransactionType `gorm:"type:varchar(16);not null" json:"type"`

	Points      int64  `gorm:"not null" json:"points"`
	Description string `gorm:"type:text" json:"description"`

	ReferenceID *string `gorm:"type:uuid" json:"reference_id,omitempty"` // reward or adjustment reference
	OrderID     *string `gorm:"type:uuid" json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
