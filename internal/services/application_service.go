// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/database"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type ApplicationService struct {
	db                  *gorm.DB
	config              *config.Config
	rosterService       *RosterService
	storage             ObjectStorage
	notificationService *NotificationService
}

type SubmitApplicationRequest struct {
	FullName      string  `form:"fullName" validate:"required,min=2,max=150"`
	StudentNumber string  `form:"studentNumber" validate:"required,student_number"`
	Department    string  `form:"department" validate:"required,max=100"`
	PhoneNumber   string  `form:"phoneNumber" validate:"required,phone_number"`
	PaymentAmount float64 `form:"paymentAmount" validate:"required,gt=0"`
}

type ReviewApplicationRequest struct {
	Action      string   `json:"action" validate:"required,oneof=approve reject"`
	AdminNotes  string   `json:"admin_notes,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type ApplicationSearchParams struct {
	utils.PaginationParams
	Status *models.ApplicationStatus `json:"status,omitempty"`
}

func NewApplicationService(db *gorm.DB, cfg *config.Config, rosterService *RosterService, storage ObjectStorage, notificationService *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:                  db,
		config:              cfg,
		rosterService:       rosterService,
		storage:             storage,
		notificationService: notificationService,
	}
}

// SubmitApplication stores a membership application together with its payment
// receipt. The receipt never outlives a failed submission.
func (s *ApplicationService) SubmitApplication(req *SubmitApplicationRequest, file multipart.File, header *multipart.FileHeader) (*models.MembershipApplication, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	req.StudentNumber = strings.TrimSpace(req.StudentNumber)

	// One application per student number, ever
	var existingCount int64
	if err := s.db.Model(&models.MembershipApplication{}).
		Where("student_number = ?", req.StudentNumber).
		Count(&existingCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existingCount > 0 {
		return nil, errors.New("application with this student number already exists")
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).
		Where("student_number = ?", req.StudentNumber).
		Count(&userCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if userCount > 0 {
		return nil, errors.New("account for this student number already exists")
	}

	// Roster verdict is advisory; the reviewer sees it alongside the receipt
	eligibility := s.rosterService.CheckEligibility(req.StudentNumber, req.FullName)

	application := &models.MembershipApplication{
		FullName:        req.FullName,
		StudentNumber:   req.StudentNumber,
		Department:      req.Department,
		PhoneNumber:     req.PhoneNumber,
		PaymentAmount:   req.PaymentAmount,
		IsEligible:      eligibility.IsEligible,
		EligibilityNote: eligibility.Note,
		Status:          models.ApplicationStatusPending,
	}

	var uploadKey string
	if file != nil && header != nil {
		options := UploadOptions{
			Folder:       "receipts",
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
			IsPublic:     false,
			SniffContent: true,
		}
		upload, err := s.storage.UploadFile(file, header, options)
		if err != nil {
			return nil, fmt.Errorf("receipt upload failed: %w", err)
		}
		uploadKey = upload.Key
		application.ReceiptFileName = header.Filename
		application.ReceiptFileKey = upload.Key
		application.ReceiptFileSize = upload.Size
		application.ReceiptMimeType = upload.MimeType
	} else {
		// No receipt: a succeeded online dues payment for the same student
		// number takes its place.
		var payment models.DuesPayment
		if err := s.db.Where("student_number = ? AND status = ?",
			req.StudentNumber, models.PaymentStatusSucceeded).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("payment receipt is required")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		application.DuesPaymentID = &payment.ID
		application.PaymentAmount = payment.Amount
	}

	if err := s.db.Create(application).Error; err != nil {
		// No orphaned uploads on a failed submission
		if uploadKey != "" {
			if delErr := s.storage.DeleteFile(uploadKey); delErr != nil {
				logrus.WithError(delErr).WithField("key", uploadKey).Error("Failed to delete receipt after submission failure")
			}
		}
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return nil, errors.New("application with this student number already exists")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	// Let the board know there is something to review
	go s.sendSubmissionNotification(application)

	return application, nil
}

func (s *ApplicationService) GetApplication(id uuid.UUID) (*models.MembershipApplication, error) {
	var application models.MembershipApplication
	if err := s.db.Preload("ReviewedBy").Preload("CreatedUser").
		First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &application, nil
}

func (s *ApplicationService) SearchApplications(params ApplicationSearchParams) ([]models.MembershipApplication, int64, error) {
	query := s.db.Model(&models.MembershipApplication{}).
		Preload("ReviewedBy").Preload("CreatedUser")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR student_number LIKE ? OR department ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "reviewed_at", "status", "student_number"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var applications []models.MembershipApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// ReviewApplication performs the single allowed transition out of PENDING.
// The status guard is a conditional update inside one transaction, so two
// concurrent reviews of the same application cannot both succeed, and an
// approval that fails to create the member account leaves the application
// pending.
func (s *ApplicationService) ReviewApplication(applicationID, reviewerID uuid.UUID, req *ReviewApplicationRequest) (*models.MembershipApplication, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Action == "reject" && strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("rejection requires a reason")
	}

	var application models.MembershipApplication
	if err := s.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.IsProcessed() {
		return nil, errors.New("application already processed")
	}

	return s.completeReview(&application, reviewerID, req)
}

// completeReview runs the status transition. The loaded application may be
// stale by the time the transaction runs; the conditional update is the
// guard, so a review that lost the race fails here and rolls back any
// account provisioned for it.
func (s *ApplicationService) completeReview(application *models.MembershipApplication, reviewerID uuid.UUID, req *ReviewApplicationRequest) (*models.MembershipApplication, error) {
	applicationID := application.ID
	now := time.Now()
	var createdUser *models.User

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		newStatus := models.ApplicationStatusRejected
		if req.Action == "approve" {
			newStatus = models.ApplicationStatusApproved
		}

		notes := req.AdminNotes
		if req.Action == "reject" {
			notes = req.Reason
			if req.AdminNotes != "" {
				notes = req.Reason + "\n" + req.AdminNotes
			}
		}

		updates := map[string]interface{}{
			"status":         newStatus,
			"admin_notes":    notes,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    now,
		}

		if req.Action == "approve" {
			user, err := s.provisionMember(tx, application, req.Permissions)
			if err != nil {
				return err
			}
			createdUser = user
			updates["created_user_id"] = user.ID
		}

		// Conditional update is the concurrency guard: only one reviewer
		// can move the row out of pending.
		result := tx.Model(&models.MembershipApplication{}).
			Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update application: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("application already processed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Receipt cleanup after approval is best-effort; the sweep picks up
	// anything left behind.
	if req.Action == "approve" && application.ReceiptFileKey != "" {
		if delErr := s.storage.DeleteFile(application.ReceiptFileKey); delErr != nil {
			logrus.WithError(delErr).WithField("key", application.ReceiptFileKey).
				Error("Failed to delete receipt after approval")
		} else if err := s.db.Model(&models.MembershipApplication{}).
			Where("id = ?", applicationID).
			Update("receipt_file_key", "").Error; err != nil {
			logrus.WithError(err).Error("Failed to clear receipt key after approval")
		}
	}

	if err := s.db.Preload("ReviewedBy").Preload("CreatedUser").
		First(application, applicationID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload application: %w", err)
	}

	go s.sendReviewNotification(application, createdUser)

	return application, nil
}

func (s *ApplicationService) provisionMember(tx *gorm.DB, application *models.MembershipApplication, permissions []string) (*models.User, error) {
	username := application.StudentNumber
	email := fmt.Sprintf("%s@%s", application.StudentNumber, s.config.Community.StudentEmailDomain)

	var existingCount int64
	if err := tx.Model(&models.User{}).
		Where("username = ? OR email = ? OR student_number = ?", username, email, application.StudentNumber).
		Count(&existingCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existingCount > 0 {
		return nil, errors.New("account for this student number already exists")
	}

	firstName, lastName := splitFullName(application.FullName)
	studentNumber := application.StudentNumber

	user := &models.User{
		Username:         username,
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		StudentNumber:    &studentNumber,
		Department:       application.Department,
		PhoneNumber:      application.PhoneNumber,
		Role:             models.UserRoleUser,
		MembershipStatus: models.MembershipStatusMember,
		IsActive:         true,
		Permissions:      pq.StringArray(permissions),
	}

	tempPassword, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	if err := user.SetPassword(tempPassword); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	if err := tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create member account: %w", err)
	}

	return user, nil
}

// DeleteOrphanedReceipts removes stored receipts still referenced by
// processed applications. Approval deletes receipts best-effort; this sweep
// is the idempotent backstop.
func (s *ApplicationService) DeleteOrphanedReceipts() (int, error) {
	var applications []models.MembershipApplication
	if err := s.db.Where("status = ? AND receipt_file_key <> ''", models.ApplicationStatusApproved).
		Find(&applications).Error; err != nil {
		return 0, fmt.Errorf("failed to list approved applications: %w", err)
	}

	deleted := 0
	for i := range applications {
		app := &applications[i]
		if err := s.storage.DeleteFile(app.ReceiptFileKey); err != nil {
			logrus.WithError(err).WithField("key", app.ReceiptFileKey).Warn("Receipt sweep delete failed")
			continue
		}
		if err := s.db.Model(app).Update("receipt_file_key", "").Error; err != nil {
			logrus.WithError(err).Error("Failed to clear receipt key after sweep")
			continue
		}
		deleted++
	}

	return deleted, nil
}

func (s *ApplicationService) sendSubmissionNotification(application *models.MembershipApplication) {
	if s.notificationService == nil {
		return
	}
	s.notificationService.SendApplicationSubmittedNotification(application)
}

func (s *ApplicationService) sendReviewNotification(application *models.MembershipApplication, createdUser *models.User) {
	if s.notificationService == nil {
		return
	}
	if application.Status == models.ApplicationStatusApproved && createdUser != nil {
		s.notificationService.SendApplicationApprovedNotification(application, createdUser)
	} else if application.Status == models.ApplicationStatusRejected {
		s.notificationService.SendApplicationRejectedNotification(application)
	}
}

func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
