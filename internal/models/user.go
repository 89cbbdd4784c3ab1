// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username         string           `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email            string           `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string           `json:"-" gorm:"size:255;not null"`
	FirstName        string           `json:"first_name" gorm:"size:100"`
	LastName         string           `json:"last_name" gorm:"size:100"`
	StudentNumber    *string          `json:"student_number" gorm:"uniqueIndex;size:20"`
	Department       string           `json:"department" gorm:"size:100"`
	PhoneNumber      string           `json:"phone_number" gorm:"size:20"`
	Role             UserRole         `json:"role" gorm:"type:varchar(20);default:'user'"`
	MembershipStatus MembershipStatus `json:"membership_status" gorm:"type:varchar(20);default:'none'"`
	IsActive         bool             `json:"is_active" gorm:"default:true"`
	Permissions      pq.StringArray   `json:"permissions" gorm:"type:text"`
	ProfileData      JSONB            `json:"profile_data" gorm:"type:jsonb"`
	EmailVerifiedAt  *time.Time       `json:"email_verified_at"`
	LastLoginAt      *time.Time       `json:"last_login_at"`

	// Relationships
	Suggestions []SongSuggestion `json:"suggestions,omitempty" gorm:"foreignKey:SuggestedByID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
