// internal/services/admin_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func createTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	admin := &models.User{
		Username:         "admin",
		Email:            "admin@melodia.community",
		Role:             models.UserRoleAdmin,
		MembershipStatus: models.MembershipStatusMember,
		IsActive:         true,
	}
	require.NoError(t, admin.SetPassword("Password1"))
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestUpdateUserRoleGuardsSelfDemotion(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db, NewRosterService(db, testConfig()))
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "deniz")

	_, err := service.UpdateUserRole(admin.ID, admin.ID, &UpdateUserRoleRequest{Role: models.UserRoleUser})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot demote your own account")

	promoted, err := service.UpdateUserRole(member.ID, admin.ID, &UpdateUserRoleRequest{Role: models.UserRoleBoard})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleBoard, promoted.Role)

	var logCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "role_change").Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestSetUserActiveGuardsSelf(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db, NewRosterService(db, testConfig()))
	admin := createTestAdmin(t, db)
	member := createTestMember(t, db, "deniz")

	_, err := service.SetUserActive(admin.ID, admin.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot deactivate your own account")

	deactivated, err := service.SetUserActive(member.ID, admin.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}

func TestDashboardStatsCountsDomainRows(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db, NewRosterService(db, testConfig()))
	createTestAdmin(t, db)
	member := createTestMember(t, db, "deniz")

	require.NoError(t, db.Create(&models.RosterSyncStatus{ID: 1, MemberCount: 40}).Error)
	require.NoError(t, db.Create(&models.MembershipApplication{
		FullName:      "Ece Demir",
		StudentNumber: "20210002",
		Department:    "Music",
		PhoneNumber:   "+905551112233",
		PaymentAmount: 150,
		Status:        models.ApplicationStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.Event{
		Title:       "Spring Concert",
		StartsAt:    time.Now().Add(24 * time.Hour),
		IsPublished: true,
		CreatedByID: member.ID,
	}).Error)
	amount := 150.0
	require.NoError(t, db.Create(&models.DuesPayment{
		StudentNumber: "20210002",
		Amount:        amount,
		Currency:      "try",
		Status:        models.PaymentStatusSucceeded,
	}).Error)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveMembers)
	assert.Equal(t, int64(1), stats.PendingApplications)
	assert.Equal(t, int64(1), stats.UpcomingEvents)
	assert.Equal(t, 150.0, stats.DuesCollected)
	require.NotNil(t, stats.RosterSync)
	assert.Equal(t, 40, stats.RosterSync.MemberCount)
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db, NewRosterService(db, testConfig()))

	notification := &models.AdminNotification{
		Type:    "new_application",
		Title:   "New membership application",
		Message: "Ece Demir applied",
		Status:  "unread",
	}
	require.NoError(t, db.Create(notification).Error)

	require.NoError(t, service.MarkNotificationRead(notification.ID))

	var reloaded models.AdminNotification
	require.NoError(t, db.First(&reloaded, notification.ID).Error)
	assert.Equal(t, "read", reloaded.Status)
	assert.NotNil(t, reloaded.ReadAt)

	err := service.MarkNotificationRead(uuid.New())
	require.Error(t, err)
}
