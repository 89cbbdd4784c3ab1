// internal/models/payment.go
package models

import "github.com/google/uuid"

// DuesPayment records an online membership-dues payment made through Stripe,
// an alternative to uploading a bank-transfer receipt.
type DuesPayment struct {
	BaseModel
	UserID         *uuid.UUID    `json:"user_id" gorm:"type:uuid;index"`
	Amount         float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency       string        `json:"currency" gorm:"size:10;not null"`
	StripeIntentID string        `json:"stripe_intent_id" gorm:"uniqueIndex;size:255"`
	Status         PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StudentNumber  string        `json:"student_number" gorm:"size:20;index"`
}
