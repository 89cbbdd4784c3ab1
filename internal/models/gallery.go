// internal/models/gallery.go
package models

import "github.com/google/uuid"

type GalleryItem struct {
	BaseModel
	Title        string     `json:"title" gorm:"size:255"`
	Caption      string     `json:"caption" gorm:"type:text"`
	FileKey      string     `json:"file_key" gorm:"size:255;not null"`
	URL          string     `json:"url" gorm:"size:512;not null"`
	MimeType     string     `json:"mime_type" gorm:"size:100"`
	Size         int64      `json:"size"`
	EventID      *uuid.UUID `json:"event_id" gorm:"type:uuid;index"`
	UploadedByID uuid.UUID  `json:"uploaded_by" gorm:"type:uuid;not null"`

	// Relationships
	Event      *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	UploadedBy *User  `json:"uploaded_by_user,omitempty" gorm:"foreignKey:UploadedByID"`
}
