// internal/services/contact_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type ContactService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=150"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=3,max=255"`
	Body    string `json:"body" validate:"required,min=10"`
}

type ContactSearchParams struct {
	utils.PaginationParams
	Status *models.ContactStatus `json:"status,omitempty"`
}

func NewContactService(db *gorm.DB, notificationService *NotificationService) *ContactService {
	return &ContactService{db: db, notificationService: notificationService}
}

func (s *ContactService) SubmitMessage(req *SubmitContactRequest) (*models.ContactMessage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.ContactStatusOpen,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact message: %w", err)
	}

	if s.notificationService != nil {
		go s.notificationService.SendContactMessageNotification(message)
	}

	return message, nil
}

func (s *ContactService) GetMessage(id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.db.Preload("ResolvedBy").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contact message not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &message, nil
}

func (s *ContactService) SearchMessages(params ContactSearchParams) ([]models.ContactMessage, int64, error) {
	query := s.db.Model(&models.ContactMessage{}).Preload("ResolvedBy")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var messages []models.ContactMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contact messages: %w", err)
	}

	return messages, total, nil
}

// ResolveMessage marks an open message resolved. Resolving twice fails.
func (s *ContactService) ResolveMessage(id, resolverID uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contact message not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if message.Status == models.ContactStatusResolved {
		return nil, errors.New("contact message already processed")
	}

	now := time.Now()
	result := s.db.Model(&models.ContactMessage{}).
		Where("id = ? AND status = ?", id, models.ContactStatusOpen).
		Updates(map[string]interface{}{
			"status":         models.ContactStatusResolved,
			"resolved_by_id": resolverID,
			"resolved_at":    now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve contact message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("contact message already processed")
	}

	if err := s.db.Preload("ResolvedBy").First(&message, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload contact message: %w", err)
	}

	return &message, nil
}
