// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.cfg = testConfig()
	utils.SetJWTSecret(s.cfg.JWT.SecretKey)
	s.service = NewAuthService(s.db, s.cfg, NewRosterService(s.db, s.cfg), nil)
}

func (s *AuthServiceTestSuite) registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Username:      "deniz",
		Email:         "deniz@example.com",
		Password:      "Password1",
		FirstName:     "Deniz",
		LastName:      "Yilmaz",
		StudentNumber: "20210001",
	}
}

func (s *AuthServiceTestSuite) TestStrictRegistrationRequiresRosterMatch() {
	_, err := s.service.Register(s.registerRequest())
	s.Require().Error(err)
	s.Contains(err.Error(), "not eligible")

	req := s.registerRequest()
	req.StudentNumber = ""
	_, err = s.service.Register(req)
	s.Require().Error(err)
	s.Contains(err.Error(), "student number is required")
}

func (s *AuthServiceTestSuite) TestStrictRegistrationAcceptsRosterMember() {
	s.Require().NoError(s.db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Deniz Yilmaz",
	}).Error)

	response, err := s.service.Register(s.registerRequest())
	s.Require().NoError(err)

	s.NotEmpty(response.AccessToken)
	s.NotEmpty(response.RefreshToken)
	s.Equal("Bearer", response.TokenType)
	s.Equal(models.MembershipStatusMember, response.User.MembershipStatus)
	s.Equal(models.UserRoleUser, response.User.Role)
}

func (s *AuthServiceTestSuite) TestLenientRegistrationWithoutRosterMatch() {
	s.cfg.Roster.StrictRegistration = false

	response, err := s.service.Register(s.registerRequest())
	s.Require().NoError(err)

	// Account exists but without member standing.
	s.Equal(models.MembershipStatusNone, response.User.MembershipStatus)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsDuplicateEmail() {
	s.Require().NoError(s.db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Deniz Yilmaz",
	}).Error)
	s.Require().NoError(s.db.Create(&models.RosterMember{
		StudentNumber: "20210002",
		FullName:      "Ece Demir",
	}).Error)

	_, err := s.service.Register(s.registerRequest())
	s.Require().NoError(err)

	req := s.registerRequest()
	req.Username = "ece"
	req.StudentNumber = "20210002"
	_, err = s.service.Register(req)
	s.Require().Error(err)
	s.Contains(err.Error(), "email already exists")
}

func (s *AuthServiceTestSuite) TestLoginChecksPasswordAndActiveFlag() {
	s.Require().NoError(s.db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Deniz Yilmaz",
	}).Error)
	_, err := s.service.Register(s.registerRequest())
	s.Require().NoError(err)

	response, err := s.service.Login(&LoginRequest{Email: "deniz@example.com", Password: "Password1"})
	s.Require().NoError(err)
	s.NotEmpty(response.AccessToken)
	s.NotNil(response.User.LastLoginAt)

	_, err = s.service.Login(&LoginRequest{Email: "deniz@example.com", Password: "WrongPass1"})
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid email or password")

	s.Require().NoError(s.db.Model(&models.User{}).
		Where("email = ?", "deniz@example.com").
		Update("is_active", false).Error)

	_, err = s.service.Login(&LoginRequest{Email: "deniz@example.com", Password: "Password1"})
	s.Require().Error(err)
	s.Contains(err.Error(), "deactivated")
}

func (s *AuthServiceTestSuite) TestPasswordResetFlow() {
	s.Require().NoError(s.db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Deniz Yilmaz",
	}).Error)
	_, err := s.service.Register(s.registerRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.ForgotPassword(&ForgotPasswordRequest{Email: "deniz@example.com"}))

	var user models.User
	s.Require().NoError(s.db.Where("email = ?", "deniz@example.com").First(&user).Error)
	token, ok := user.ProfileData["reset_token"].(string)
	s.Require().True(ok)
	s.Require().NotEmpty(token)

	s.Require().NoError(s.service.ResetPassword(&ResetPasswordRequest{
		Token:       token,
		NewPassword: "NewPassword2",
	}))

	_, err = s.service.Login(&LoginRequest{Email: "deniz@example.com", Password: "NewPassword2"})
	s.Require().NoError(err)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
