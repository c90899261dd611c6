package models

import "gorm.io/gorm"

// Payment statuses. PENDING is the only initial state; the others are
// terminal for this design.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

type Payment struct {
	gorm.Model
	PropertyID      uint    `json:"propertyId" gorm:"uniqueIndex:idx_payments_property_user"`
	UserID          uint    `json:"userId" gorm:"uniqueIndex:idx_payments_property_user"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency" gorm:"type:varchar(3)"`
	Status          string  `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	PaymentIntentID string  `json:"paymentIntentId" gorm:"uniqueIndex"`
}
