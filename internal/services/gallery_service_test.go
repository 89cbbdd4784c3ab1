// internal/services/gallery_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadItemRejectsUnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewGalleryService(db, newMemoryStorage())
	uploader := createTestMember(t, db, "boardmember")

	eventID := uuid.New()
	file, header := newTestReceipt("photo.jpg")
	_, err := service.UploadItem(uploader.ID, &UploadGalleryItemRequest{
		Title:   "Concert photo",
		EventID: &eventID,
	}, file, header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event not found")
}

func TestGalleryItemLifecycle(t *testing.T) {
	db := setupTestDB(t)
	storage := newMemoryStorage()
	galleryService := NewGalleryService(db, storage)
	eventService := NewEventService(db, storage)
	uploader := createTestMember(t, db, "boardmember")

	event, err := eventService.CreateEvent(uploader.ID, &CreateEventRequest{
		Title:       "Spring Concert",
		StartsAt:    time.Now().Add(24 * time.Hour),
		IsPublished: true,
	})
	require.NoError(t, err)

	file, header := newTestReceipt("photo.jpg")
	item, err := galleryService.UploadItem(uploader.ID, &UploadGalleryItemRequest{
		Title:   "Encore",
		Caption: "The encore from the spring concert",
		EventID: &event.ID,
	}, file, header)
	require.NoError(t, err)
	assert.NotEmpty(t, item.FileKey)
	assert.Equal(t, 1, storage.count())

	items, total, err := galleryService.SearchItems(GallerySearchParams{EventID: &event.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	require.NoError(t, galleryService.DeleteItem(item.ID))
	assert.Equal(t, 0, storage.count())

	_, err = galleryService.GetItem(item.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
