// internal/services/storage_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/config"
)

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()
	cfg := testConfig()
	cfg.AWS = config.AWSConfig{LocalUploadsDir: t.TempDir()}
	cfg.Server = config.ServerConfig{Host: "localhost", Port: "8080"}

	service, err := NewStorageService(cfg)
	require.NoError(t, err)
	return service
}

func TestLocalUploadAndDelete(t *testing.T) {
	service := newLocalStorage(t)

	file, header := newTestReceipt("receipt.jpg")
	result, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("receipts"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.Key)
	assert.Contains(t, result.Key, "receipts/")
	assert.Contains(t, result.URL, "/uploads/")

	path := filepath.Join(service.config.AWS.LocalUploadsDir, filepath.FromSlash(result.Key))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, service.DeleteFile(result.Key))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing key is not an error.
	require.NoError(t, service.DeleteFile(result.Key))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	service := newLocalStorage(t)

	file, header := newTestReceipt("receipt.exe")
	_, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("receipts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestUploadSniffsContent(t *testing.T) {
	service := newLocalStorage(t)

	// Allowed extension but not an allowed format inside.
	file, header := newTestFileWithContent("receipt.jpg", []byte("MZ executable payload"))
	_, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("receipts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match an allowed format")

	// PDF magic bytes pass the receipts category.
	file, header = newTestFileWithContent("receipt.pdf", []byte("%PDF-1.7 minimal"))
	_, err = service.UploadFile(file, header, service.GetDefaultUploadOptions("receipts"))
	require.NoError(t, err)
}

func TestUploadSniffHonorsCategoryFormats(t *testing.T) {
	service := newLocalStorage(t)
	gif := append([]byte("GIF89a"), make([]byte, 16)...)

	// A GIF renamed .jpg is a valid image format, but not one receipts accept.
	file, header := newTestFileWithContent("receipt.jpg", gif)
	_, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("receipts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match an allowed format")

	// The gallery category allows GIFs.
	file, header = newTestFileWithContent("party.gif", gif)
	_, err = service.UploadFile(file, header, service.GetDefaultUploadOptions("gallery"))
	require.NoError(t, err)
}

func TestUploadEnforcesMaxSize(t *testing.T) {
	service := newLocalStorage(t)

	file, header := newTestReceipt("receipt.jpg")
	options := service.GetDefaultUploadOptions("receipts")
	options.MaxSize = 2

	_, err := service.UploadFile(file, header, options)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestGeneratePresignedURLForLocalFiles(t *testing.T) {
	service := newLocalStorage(t)

	url, err := service.GeneratePresignedURL("receipts/20240101_abcd1234.jpg", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/receipts/20240101_abcd1234.jpg", url)
}
