// internal/services/suggestion_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func createTestMember(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:         username,
		Email:            username + "@std.example.edu",
		Role:             models.UserRoleUser,
		MembershipStatus: models.MembershipStatusMember,
		IsActive:         true,
	}
	require.NoError(t, user.SetPassword("Password1"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestVoteCountsOncePerUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewSuggestionService(db)
	owner := createTestMember(t, db, "owner")
	voter := createTestMember(t, db, "voter")

	suggestion, err := service.CreateSuggestion(owner.ID, &CreateSuggestionRequest{
		Title:  "Bohemian Rhapsody",
		Artist: "Queen",
		Genres: []string{"rock"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionStatusOpen, suggestion.Status)

	voted, err := service.Vote(suggestion.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Votes)

	_, err = service.Vote(suggestion.ID, voter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already voted")

	reloaded, err := service.GetSuggestion(suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Votes)
}

func TestVoteRequiresOpenSuggestion(t *testing.T) {
	db := setupTestDB(t)
	service := NewSuggestionService(db)
	owner := createTestMember(t, db, "owner")
	voter := createTestMember(t, db, "voter")

	suggestion, err := service.CreateSuggestion(owner.ID, &CreateSuggestionRequest{
		Title:  "Take Five",
		Artist: "Dave Brubeck",
	})
	require.NoError(t, err)

	_, err = service.UpdateStatus(suggestion.ID, models.SuggestionStatusPicked)
	require.NoError(t, err)

	_, err = service.Vote(suggestion.ID, voter.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not open")
}

func TestDeleteSuggestionRequiresOwnerOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewSuggestionService(db)
	owner := createTestMember(t, db, "owner")
	other := createTestMember(t, db, "other")

	suggestion, err := service.CreateSuggestion(owner.ID, &CreateSuggestionRequest{
		Title:  "Roundabout",
		Artist: "Yes",
	})
	require.NoError(t, err)

	_, err = service.Vote(suggestion.ID, other.ID)
	require.NoError(t, err)

	err = service.DeleteSuggestion(suggestion.ID, other.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	// Admin delete cascades to the recorded votes.
	err = service.DeleteSuggestion(suggestion.ID, other.ID, true)
	require.NoError(t, err)

	var voteCount int64
	require.NoError(t, db.Model(&models.SuggestionVote{}).
		Where("suggestion_id = ?", suggestion.ID).Count(&voteCount).Error)
	assert.Equal(t, int64(0), voteCount)
}
