// internal/services/service_test.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Community: config.CommunityConfig{
			Name:               "Melodia Music Community",
			StudentEmailDomain: "std.example.edu",
		},
		Roster: config.RosterConfig{
			ReadRange:          "Members!A2:D",
			StrictRegistration: true,
		},
		Payment: config.PaymentConfig{
			DuesAmount:   150,
			DuesCurrency: "try",
		},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 1,
		},
	}
}

// memoryStorage is an in-memory ObjectStorage for service tests.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if options.SniffContent && !isAllowedContent(content, options.AllowedTypes) {
		return nil, fmt.Errorf("file content does not match an allowed format")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	key := fmt.Sprintf("%s/%d_%s", options.Folder, m.uploads, header.Filename)
	m.objects[key] = content

	return &UploadResult{
		URL:      "https://files.test/" + key,
		Key:      key,
		Size:     int64(len(content)),
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

func (m *memoryStorage) DeleteFile(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStorage) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type testFile struct {
	*bytes.Reader
}

func (testFile) Close() error { return nil }

func newTestFileWithContent(name string, content []byte) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(content)),
		Header:   textproto.MIMEHeader{"Content-Type": []string{"application/octet-stream"}},
	}
	return testFile{bytes.NewReader(content)}, header
}

// newTestReceipt returns a fake upload carrying valid JPEG magic bytes.
func newTestReceipt(name string) (multipart.File, *multipart.FileHeader) {
	content := append([]byte{0xFF, 0xD8, 0xFF}, []byte("test-receipt-content")...)
	file, header := newTestFileWithContent(name, content)
	header.Header.Set("Content-Type", "image/jpeg")
	return file, header
}
