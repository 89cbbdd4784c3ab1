// internal/models/event.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	BaseModel
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Location    string     `json:"location" gorm:"size:255"`
	StartsAt    time.Time  `json:"starts_at" gorm:"not null;index"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    int        `json:"capacity"`
	CoverImage  string     `json:"cover_image" gorm:"size:255"`
	IsPublished bool       `json:"is_published" gorm:"default:false;index"`
	CreatedByID uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	CreatedBy *User `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedByID"`
}
