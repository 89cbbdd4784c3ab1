// internal/models/suggestion.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SongSuggestion struct {
	BaseModel
	Title         string           `json:"title" gorm:"size:255;not null"`
	Artist        string           `json:"artist" gorm:"size:255;not null"`
	Genres        pq.StringArray   `json:"genres" gorm:"type:text"`
	Note          string           `json:"note" gorm:"type:text"`
	Status        SuggestionStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	Votes         int              `json:"votes" gorm:"default:0"`
	SuggestedByID uuid.UUID        `json:"suggested_by" gorm:"type:uuid;not null;index"`

	// Relationships
	SuggestedBy *User `json:"suggested_by_user,omitempty" gorm:"foreignKey:SuggestedByID"`
}

// SuggestionVote enforces one vote per user per suggestion through a composite
// unique index.
type SuggestionVote struct {
	BaseModel
	SuggestionID uuid.UUID `json:"suggestion_id" gorm:"type:uuid;not null;uniqueIndex:idx_suggestion_votes_once"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_suggestion_votes_once"`
}
