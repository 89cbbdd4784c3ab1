// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipApplication is a membership request submitted by a prospective
// member. It is mutated exactly once, by an admin review.
type MembershipApplication struct {
	BaseModel
	FullName      string  `json:"full_name" gorm:"size:150;not null"`
	StudentNumber string  `json:"student_number" gorm:"uniqueIndex;size:20;not null"`
	Department    string  `json:"department" gorm:"size:100;not null"`
	PhoneNumber   string  `json:"phone_number" gorm:"size:20;not null"`
	PaymentAmount float64 `json:"payment_amount" gorm:"type:decimal(10,2);not null"`

	// Receipt upload; the stored object is transient and deleted after a
	// successful approval.
	ReceiptFileName string `json:"receipt_file_name" gorm:"size:255"`
	ReceiptFileKey  string `json:"receipt_file_key" gorm:"size:255"`
	ReceiptFileSize int64  `json:"receipt_file_size"`
	ReceiptMimeType string `json:"receipt_mime_type" gorm:"size:100"`

	// Roster verdict recorded at submission time, informational for the reviewer.
	IsEligible      bool   `json:"is_eligible"`
	EligibilityNote string `json:"eligibility_note" gorm:"size:255"`

	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminNotes    string            `json:"admin_notes" gorm:"type:text"`
	ReviewedByID  *uuid.UUID        `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt    *time.Time        `json:"reviewed_at"`
	CreatedUserID *uuid.UUID        `json:"created_user" gorm:"type:uuid"`

	DuesPaymentID *uuid.UUID `json:"dues_payment_id" gorm:"type:uuid"`

	// Relationships
	ReviewedBy  *User        `json:"reviewed_by_user,omitempty" gorm:"foreignKey:ReviewedByID"`
	CreatedUser *User        `json:"created_user_summary,omitempty" gorm:"foreignKey:CreatedUserID"`
	DuesPayment *DuesPayment `json:"dues_payment,omitempty" gorm:"foreignKey:DuesPaymentID"`
}

func (a *MembershipApplication) IsProcessed() bool {
	return a.Status != ApplicationStatusPending
}
