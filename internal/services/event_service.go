// internal/services/event_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type EventService struct {
	db      *gorm.DB
	storage ObjectStorage
}

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=255"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=255"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	IsPublished bool       `json:"is_published,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	IsPublished *bool      `json:"is_published,omitempty"`
}

type EventSearchParams struct {
	utils.PaginationParams
	Upcoming      bool `json:"upcoming,omitempty"`
	PublishedOnly bool `json:"published_only,omitempty"`
}

func NewEventService(db *gorm.DB, storage ObjectStorage) *EventService {
	return &EventService{db: db, storage: storage}
}

func (s *EventService) CreateEvent(creatorID uuid.UUID, req *CreateEventRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, errors.New("event cannot end before it starts")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
		IsPublished: req.IsPublished,
		CreatedByID: creatorID,
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *EventService) GetEvent(id uuid.UUID, includeUnpublished bool) (*models.Event, error) {
	query := s.db.Preload("CreatedBy")
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}

	var event models.Event
	if err := query.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &event, nil
}

func (s *EventService) SearchEvents(params EventSearchParams) ([]models.Event, int64, error) {
	query := s.db.Model(&models.Event{}).Preload("CreatedBy")

	if params.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if params.Upcoming {
		query = query.Where("starts_at >= ?", time.Now())
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	allowedSortFields := []string{"starts_at", "created_at", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, total, nil
}

func (s *EventService) UpdateEvent(id uuid.UUID, req *UpdateEventRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}

	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return nil, errors.New("event cannot end before it starts")
	}

	if err := s.db.Save(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &event, nil
}

func (s *EventService) SetCoverImage(id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	options := UploadOptions{
		Folder:       "events",
		MaxSize:      5 * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png"},
		IsPublic:     true,
		SniffContent: true,
	}
	upload, err := s.storage.UploadFile(file, header, options)
	if err != nil {
		return nil, fmt.Errorf("cover upload failed: %w", err)
	}

	oldKey := event.CoverImage
	event.CoverImage = upload.Key
	if err := s.db.Save(&event).Error; err != nil {
		s.storage.DeleteFile(upload.Key)
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if oldKey != "" {
		s.storage.DeleteFile(oldKey)
	}

	return &event, nil
}

func (s *EventService) DeleteEvent(id uuid.UUID) error {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("event not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&event).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if event.CoverImage != "" {
		s.storage.DeleteFile(event.CoverImage)
	}

	return nil
}
