// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.MembershipApplication{},
		&models.RosterMember{},
		&models.RosterSyncStatus{},
		&models.Event{},
		&models.GalleryItem{},
		&models.ContactMessage{},
		&models.SongSuggestion{},
		&models.SuggestionVote{},
		&models.DuesPayment{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_membership ON users(role, membership_status)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_status ON membership_applications(status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_student_number ON membership_applications(student_number)",
		"CREATE INDEX IF NOT EXISTS idx_applications_created_at ON membership_applications(created_at DESC)",

		// Roster indexes
		"CREATE INDEX IF NOT EXISTS idx_roster_members_student_number ON roster_members(student_number)",

		// Event indexes
		"CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at)",
		"CREATE INDEX IF NOT EXISTS idx_events_published ON events(is_published, starts_at)",

		// Gallery indexes
		"CREATE INDEX IF NOT EXISTS idx_gallery_items_event ON gallery_items(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_gallery_items_created_at ON gallery_items(created_at DESC)",

		// Contact indexes
		"CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages(status, created_at DESC)",

		// Suggestion indexes
		"CREATE INDEX IF NOT EXISTS idx_song_suggestions_status ON song_suggestions(status, votes DESC)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_dues_payments_user ON dues_payments(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_dues_payments_status ON dues_payments(status)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_notifications_status ON admin_notifications(status, priority)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_events_search ON events USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username:         "admin",
			Email:            cfg.Community.AdminEmail,
			FirstName:        "System",
			LastName:         "Administrator",
			Role:             models.UserRoleAdmin,
			MembershipStatus: models.MembershipStatusMember,
			IsActive:         true,
		}

		if err := admin.SetPassword(cfg.Community.AdminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Single status row for the roster sync
	var statusCount int64
	db.Model(&models.RosterSyncStatus{}).Count(&statusCount)
	if statusCount == 0 {
		if err := db.Create(&models.RosterSyncStatus{ID: 1}).Error; err != nil {
			return fmt.Errorf("failed to create roster sync status row: %w", err)
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
