// internal/services/contact_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func TestResolveContactMessageOnce(t *testing.T) {
	db := setupTestDB(t)
	service := NewContactService(db, nil)
	resolver := createTestMember(t, db, "boardmember")

	message, err := service.SubmitMessage(&SubmitContactRequest{
		Name:    "Deniz Yilmaz",
		Email:   "deniz@example.com",
		Subject: "Rehearsal rooms",
		Body:    "Are the rehearsal rooms open during exam weeks?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusOpen, message.Status)

	resolved, err := service.ResolveMessage(message.ID, resolver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedByID)
	assert.Equal(t, resolver.ID, *resolved.ResolvedByID)
	assert.NotNil(t, resolved.ResolvedAt)

	_, err = service.ResolveMessage(message.ID, resolver.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already processed")
}

func TestSubmitContactMessageValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewContactService(db, nil)

	_, err := service.SubmitMessage(&SubmitContactRequest{
		Name:    "D",
		Email:   "not-an-email",
		Subject: "x",
		Body:    "short",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
