// internal/services/admin_service.go
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

type AdminService struct {
	db            *gorm.DB
	rosterService *RosterService
}

type AdminDashboardStats struct {
	TotalUsers           int64                    `json:"total_users"`
	ActiveMembers        int64                    `json:"active_members"`
	PendingApplications  int64                    `json:"pending_applications"`
	ApprovedApplications int64                    `json:"approved_applications"`
	RejectedApplications int64                    `json:"rejected_applications"`
	UpcomingEvents       int64                    `json:"upcoming_events"`
	OpenContactMessages  int64                    `json:"open_contact_messages"`
	OpenSuggestions      int64                    `json:"open_suggestions"`
	DuesCollected        float64                  `json:"dues_collected"`
	RosterSync           *models.RosterSyncStatus `json:"roster_sync,omitempty"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role             *models.UserRole         `json:"role,omitempty"`
	MembershipStatus *models.MembershipStatus `json:"membership_status,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,oneof=user board admin"`
}

func NewAdminService(db *gorm.DB, rosterService *RosterService) *AdminService {
	return &AdminService{
		db:            db,
		rosterService: rosterService,
	}
}

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).
		Where("membership_status = ? AND is_active = ?", models.MembershipStatusMember, true).
		Count(&stats.ActiveMembers)
	s.db.Model(&models.MembershipApplication{}).
		Where("status = ?", models.ApplicationStatusPending).Count(&stats.PendingApplications)
	s.db.Model(&models.MembershipApplication{}).
		Where("status = ?", models.ApplicationStatusApproved).Count(&stats.ApprovedApplications)
	s.db.Model(&models.MembershipApplication{}).
		Where("status = ?", models.ApplicationStatusRejected).Count(&stats.RejectedApplications)
	s.db.Model(&models.Event{}).
		Where("starts_at >= ?", time.Now()).Count(&stats.UpcomingEvents)
	s.db.Model(&models.ContactMessage{}).
		Where("status = ?", models.ContactStatusOpen).Count(&stats.OpenContactMessages)
	s.db.Model(&models.SongSuggestion{}).
		Where("status = ?", models.SuggestionStatusOpen).Count(&stats.OpenSuggestions)

	var duesCollected *float64
	s.db.Model(&models.DuesPayment{}).
		Where("status = ?", models.PaymentStatusSucceeded).
		Select("SUM(amount)").Scan(&duesCollected)
	if duesCollected != nil {
		stats.DuesCollected = *duesCollected
	}

	if rosterStatus, err := s.rosterService.Status(); err == nil {
		stats.RosterSync = rosterStatus
	}

	return stats, nil
}

func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.MembershipStatus != nil {
		query = query.Where("membership_status = ?", *filter.MembershipStatus)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			search, search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "email", "last_login_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserRole(userID uuid.UUID, adminID uuid.UUID, req *UpdateUserRoleRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if userID == adminID && req.Role != models.UserRoleAdmin {
		return nil, errors.New("cannot demote your own account")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	user.Role = req.Role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	s.createAuditLog(adminID, "role_change", "user", &user.ID, map[string]interface{}{
		"role": string(req.Role),
	})

	return &user, nil
}

func (s *AdminService) SetUserActive(userID uuid.UUID, adminID uuid.UUID, active bool) (*models.User, error) {
	if userID == adminID && !active {
		return nil, errors.New("cannot deactivate your own account")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	user.IsActive = active
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.createAuditLog(adminID, "set_active", "user", &user.ID, map[string]interface{}{
		"is_active": active,
	})

	return &user, nil
}

func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

func (s *AdminService) GetNotifications(params utils.PaginationParams) ([]models.AdminNotification, int64, error) {
	query := s.db.Model(&models.AdminNotification{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	allowedSortFields := []string{"created_at", "priority"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *AdminService) MarkNotificationRead(id uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": "read", "read_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    models.JSONB(newValues),
	}
	s.db.Create(auditLog)
}
