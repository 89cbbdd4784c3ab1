// internal/services/gallery_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type GalleryService struct {
	db      *gorm.DB
	storage ObjectStorage
}

type UploadGalleryItemRequest struct {
	Title   string     `form:"title" validate:"omitempty,max=255"`
	Caption string     `form:"caption,omitempty"`
	EventID *uuid.UUID `form:"event_id,omitempty"`
}

type GallerySearchParams struct {
	utils.PaginationParams
	EventID *uuid.UUID `json:"event_id,omitempty"`
}

func NewGalleryService(db *gorm.DB, storage ObjectStorage) *GalleryService {
	return &GalleryService{db: db, storage: storage}
}

func (s *GalleryService) UploadItem(uploaderID uuid.UUID, req *UploadGalleryItemRequest, file multipart.File, header *multipart.FileHeader) (*models.GalleryItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.EventID != nil {
		var count int64
		if err := s.db.Model(&models.Event{}).Where("id = ?", *req.EventID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, errors.New("event not found")
		}
	}

	options := UploadOptions{
		Folder:       "gallery",
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif"},
		IsPublic:     true,
		SniffContent: true,
	}
	upload, err := s.storage.UploadFile(file, header, options)
	if err != nil {
		return nil, fmt.Errorf("gallery upload failed: %w", err)
	}

	item := &models.GalleryItem{
		Title:        req.Title,
		Caption:      req.Caption,
		FileKey:      upload.Key,
		URL:          upload.URL,
		MimeType:     upload.MimeType,
		Size:         upload.Size,
		EventID:      req.EventID,
		UploadedByID: uploaderID,
	}

	if err := s.db.Create(item).Error; err != nil {
		if delErr := s.storage.DeleteFile(upload.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", upload.Key).Error("Failed to delete gallery file after DB failure")
		}
		return nil, fmt.Errorf("failed to create gallery item: %w", err)
	}

	return item, nil
}

func (s *GalleryService) GetItem(id uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	if err := s.db.Preload("Event").Preload("UploadedBy").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("gallery item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

func (s *GalleryService) SearchItems(params GallerySearchParams) ([]models.GalleryItem, int64, error) {
	query := s.db.Model(&models.GalleryItem{}).Preload("Event")

	if params.EventID != nil {
		query = query.Where("event_id = ?", *params.EventID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR caption ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count gallery items: %w", err)
	}

	allowedSortFields := []string{"created_at", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var items []models.GalleryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch gallery items: %w", err)
	}

	return items, total, nil
}

func (s *GalleryService) DeleteItem(id uuid.UUID) error {
	var item models.GalleryItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("gallery item not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}

	if err := s.storage.DeleteFile(item.FileKey); err != nil {
		logrus.WithError(err).WithField("key", item.FileKey).Warn("Failed to delete gallery file")
	}

	return nil
}
