package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerSegment drives the points accrual multiplier.
type CustomerSegment string

const (
	SegmentVIP       CustomerSegment = "VIP"
	SegmentWholesale CustomerSegment = "WHOLESALE"
	SegmentExport    CustomerSegment = "EXPORT"
	SegmentRegular   CustomerSegment = "REGULAR"
)

// Customer mirrors customer profiles from the CRM service.
// Table name: customers
type Customer struct {
	ID           string          `gorm:"primaryKey;type:uuid;not null" json:"id"` // External CRM customer ID
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Email        string          `gorm:"type:varchar(255);index" json:"email"`
	Segment      CustomerSegment `gorm:"type:varchar(16);not null;default:'REGULAR'" json:"segment"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	LastSyncedAt time.Time       `gorm:"not null" json:"last_synced_at"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
