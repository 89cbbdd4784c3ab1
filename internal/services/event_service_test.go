// internal/services/event_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func TestCreateEventValidatesTimes(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, newMemoryStorage())
	creator := createTestMember(t, db, "boardmember")

	starts := time.Now().Add(48 * time.Hour)
	ends := starts.Add(-time.Hour)

	_, err := service.CreateEvent(creator.ID, &CreateEventRequest{
		Title:    "Spring Concert",
		StartsAt: starts,
		EndsAt:   &ends,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot end before it starts")
}

func TestUnpublishedEventsHiddenFromPublic(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(db, newMemoryStorage())
	creator := createTestMember(t, db, "boardmember")

	draft, err := service.CreateEvent(creator.ID, &CreateEventRequest{
		Title:    "Rehearsal Planning",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = service.GetEvent(draft.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	found, err := service.GetEvent(draft.ID, true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	events, total, err := service.SearchEvents(EventSearchParams{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, events)

	published := true
	_, err = service.UpdateEvent(draft.ID, &UpdateEventRequest{IsPublished: &published})
	require.NoError(t, err)

	_, total, err = service.SearchEvents(EventSearchParams{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestSetCoverImageReplacesOldCover(t *testing.T) {
	db := setupTestDB(t)
	storage := newMemoryStorage()
	service := NewEventService(db, storage)
	creator := createTestMember(t, db, "boardmember")

	event, err := service.CreateEvent(creator.ID, &CreateEventRequest{
		Title:       "Spring Concert",
		StartsAt:    time.Now().Add(24 * time.Hour),
		IsPublished: true,
	})
	require.NoError(t, err)

	file, header := newTestReceipt("cover-v1.jpg")
	updated, err := service.SetCoverImage(event.ID, file, header)
	require.NoError(t, err)
	firstKey := updated.CoverImage
	require.NotEmpty(t, firstKey)

	file, header = newTestReceipt("cover-v2.jpg")
	updated, err = service.SetCoverImage(event.ID, file, header)
	require.NoError(t, err)

	assert.NotEqual(t, firstKey, updated.CoverImage)
	assert.Contains(t, storage.deleted, firstKey)
	assert.Equal(t, 1, storage.count())
}

func TestDeleteEventCleansUpCover(t *testing.T) {
	db := setupTestDB(t)
	storage := newMemoryStorage()
	service := NewEventService(db, storage)
	creator := createTestMember(t, db, "boardmember")

	event, err := service.CreateEvent(creator.ID, &CreateEventRequest{
		Title:    "Open Mic Night",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	file, header := newTestReceipt("cover.jpg")
	_, err = service.SetCoverImage(event.ID, file, header)
	require.NoError(t, err)

	require.NoError(t, service.DeleteEvent(event.ID))
	assert.Equal(t, 0, storage.count())

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
