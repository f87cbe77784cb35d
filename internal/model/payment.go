package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"

	DefaultMembershipPrice = 5000 // kobo
)

// swagger:model Payment
type Payment struct {
	UUIDBase
	UserID           string          `gorm:"index;type:varchar(36);not null" json:"userId"`
	Reference        string          `gorm:"size:100;uniqueIndex;not null" json:"reference"`
	Amount           int             `gorm:"not null" json:"amount"` // kobo
	Status           string          `gorm:"size:20;not null" json:"status"`
	PaystackResponse json.RawMessage `gorm:"type:json" json:"paystackResponse,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// swagger:model PaymentSettings
type PaymentSettings struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MembershipPrice   int       `gorm:"not null;default:5000" json:"membershipPrice"`
	PaystackSplitCode *string   `gorm:"size:100" json:"paystackSplitCode"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (PaymentSettings) TableName() string {
	return "payment_settings"
}

func (s *PaymentSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = GenerateUUID()
	}
	return nil
}
