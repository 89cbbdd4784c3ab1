// internal/models/contact.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	BaseModel
	Name         string        `json:"name" gorm:"size:150;not null"`
	Email        string        `json:"email" gorm:"size:255;not null"`
	Subject      string        `json:"subject" gorm:"size:255;not null"`
	Body         string        `json:"body" gorm:"type:text;not null"`
	Status       ContactStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	ResolvedByID *uuid.UUID    `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt   *time.Time    `json:"resolved_at"`

	// Relationships
	ResolvedBy *User `json:"resolved_by_user,omitempty" gorm:"foreignKey:ResolvedByID"`
}
