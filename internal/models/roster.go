// internal/models/roster.go
package models

import "time"

// RosterMember is one row of the externally maintained member roster, synced
// from the community's Google Sheet. Lookups always hit this snapshot, never
// the sheet directly.
type RosterMember struct {
	BaseModel
	StudentNumber string    `json:"student_number" gorm:"uniqueIndex;size:20;not null"`
	FullName      string    `json:"full_name" gorm:"size:150;not null"`
	Department    string    `json:"department" gorm:"size:100"`
	Year          string    `json:"year" gorm:"size:20"`
	SyncedAt      time.Time `json:"synced_at"`
}

// RosterSyncStatus is a single-row table recording the health of the last
// sheet sync, surfaced on the admin dashboard.
type RosterSyncStatus struct {
	ID           uint       `json:"-" gorm:"primaryKey"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	LastError    string     `json:"last_error" gorm:"type:text"`
	MemberCount  int        `json:"member_count"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
