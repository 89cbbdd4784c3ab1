// internal/handlers/application_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/services"
)

// fakeStorage keeps uploads in memory so handler tests can observe receipt
// lifecycle without touching S3 or disk.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) UploadFile(file multipart.File, header *multipart.FileHeader, options services.UploadOptions) (*services.UploadResult, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	key := fmt.Sprintf("%s/%d_%s", options.Folder, f.uploads, header.Filename)
	f.objects[key] = content

	return &services.UploadResult{
		URL:      "https://files.test/" + key,
		Key:      key,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}

func (f *fakeStorage) DeleteFile(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type ApplicationFlowTestSuite struct {
	suite.Suite
	db       *gorm.DB
	storage  *fakeStorage
	router   *gin.Engine
	reviewer *models.User
}

func (s *ApplicationFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.MembershipApplication{},
		&models.RosterMember{},
		&models.RosterSyncStatus{},
		&models.AdminNotification{},
	))
	s.db = db

	cfg := &config.Config{
		Community: config.CommunityConfig{StudentEmailDomain: "std.example.edu"},
	}
	s.storage = newFakeStorage()
	rosterService := services.NewRosterService(db, cfg)
	applicationService := services.NewApplicationService(db, cfg, rosterService, s.storage, nil)
	handler := NewApplicationHandler(applicationService)

	reviewer := &models.User{
		Username:         "boardmember",
		Email:            "board@melodia.community",
		Role:             models.UserRoleBoard,
		MembershipStatus: models.MembershipStatusMember,
		IsActive:         true,
	}
	s.Require().NoError(reviewer.SetPassword("Password1"))
	s.Require().NoError(db.Create(reviewer).Error)
	s.reviewer = reviewer

	r := gin.New()
	r.POST("/membership/apply", handler.Submit)
	review := r.Group("", func(c *gin.Context) {
		c.Set("user_id", reviewer.ID.String())
		c.Set("role", string(models.UserRoleBoard))
	})
	review.PUT("/admin/applications/:id/review", handler.Review)
	s.router = r
}

func (s *ApplicationFlowTestSuite) submitApplication(studentNumber string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	s.Require().NoError(writer.WriteField("fullName", "Deniz Yilmaz"))
	s.Require().NoError(writer.WriteField("studentNumber", studentNumber))
	s.Require().NoError(writer.WriteField("department", "Computer Engineering"))
	s.Require().NoError(writer.WriteField("phoneNumber", "+905551112233"))
	s.Require().NoError(writer.WriteField("paymentAmount", "150"))

	part, err := writer.CreateFormFile("paymentReceipt", "receipt.jpg")
	s.Require().NoError(err)
	_, err = part.Write(append([]byte{0xFF, 0xD8, 0xFF}, []byte("receipt")...))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/membership/apply", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ApplicationFlowTestSuite) reviewApplication(id string, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPut, "/admin/applications/"+id+"/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ApplicationFlowTestSuite) TestApplyReviewApproveFlow() {
	// Submit
	w := s.submitApplication("20210001")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var submitResponse struct {
		Success bool `json:"success"`
		Data    struct {
			ApplicationID string `json:"applicationId"`
			Status        string `json:"status"`
			IsEligible    bool   `json:"isEligible"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &submitResponse))
	s.True(submitResponse.Success)
	s.Equal("pending", submitResponse.Data.Status)
	s.False(submitResponse.Data.IsEligible)
	s.Equal(1, s.storage.count())

	// Duplicate submission is rejected
	w = s.submitApplication("20210001")
	s.Equal(http.StatusBadRequest, w.Code)

	// Approve
	w = s.reviewApplication(submitResponse.Data.ApplicationID, map[string]interface{}{
		"action": "approve",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// The member account exists and the receipt is gone
	var user models.User
	s.Require().NoError(s.db.Where("username = ?", "20210001").First(&user).Error)
	s.Equal("20210001@std.example.edu", user.Email)
	s.Equal(models.MembershipStatusMember, user.MembershipStatus)
	s.Equal(0, s.storage.count())

	// A second review attempt fails
	w = s.reviewApplication(submitResponse.Data.ApplicationID, map[string]interface{}{
		"action": "reject",
		"reason": "too late",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ApplicationFlowTestSuite) TestSubmitValidationErrors() {
	w := s.submitApplication("not-a-number")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(0, s.storage.count())
}

func (s *ApplicationFlowTestSuite) TestReviewUnknownApplication() {
	w := s.reviewApplication("00000000-0000-0000-0000-000000000000", map[string]interface{}{
		"action": "approve",
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func TestApplicationFlowSuite(t *testing.T) {
	suite.Run(t, new(ApplicationFlowTestSuite))
}
