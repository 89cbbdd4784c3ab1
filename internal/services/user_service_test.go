// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func TestUpdateProfileMergesProfileData(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	user := createTestMember(t, db, "deniz")

	firstName := "Deniz"
	updated, err := service.UpdateProfile(user.ID, &UpdateUserProfileRequest{
		FirstName:   &firstName,
		ProfileData: map[string]interface{}{"instrument": "guitar"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Deniz", updated.FirstName)
	assert.Equal(t, "guitar", updated.ProfileData["instrument"])

	// A later update keeps earlier profile data keys.
	updated, err = service.UpdateProfile(user.ID, &UpdateUserProfileRequest{
		ProfileData: map[string]interface{}{"section": "rhythm"},
	})
	require.NoError(t, err)
	assert.Equal(t, "guitar", updated.ProfileData["instrument"])
	assert.Equal(t, "rhythm", updated.ProfileData["section"])
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	user := createTestMember(t, db, "deniz")

	err := service.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "WrongPass1",
		NewPassword:     "NewPassword2",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current password is incorrect")

	require.NoError(t, service.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "Password1",
		NewPassword:     "NewPassword2",
	}))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NoError(t, reloaded.CheckPassword("NewPassword2"))
}

func TestDeactivateAccountRequiresPassword(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	user := createTestMember(t, db, "deniz")

	err := service.DeactivateAccount(user.ID, "WrongPass1")
	require.Error(t, err)

	require.NoError(t, service.DeactivateAccount(user.ID, "Password1"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsActive)
}
