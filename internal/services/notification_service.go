// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type NotificationRequest struct {
	UserID    uuid.UUID              `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	SendEmail bool                   `json:"send_email,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Name":            user.FullName(),
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
		"CommunityName":   s.config.Community.Name,
	}

	subject := "Welcome to " + s.config.Community.Name
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	template := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Name":      user.FullName(),
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	subject := "Password Reset Request"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Membership application notifications
func (s *NotificationService) SendApplicationSubmittedNotification(application *models.MembershipApplication) error {
	notification := &models.AdminNotification{
		Type:                "membership_application",
		Title:               "New Membership Application",
		Message:             fmt.Sprintf("%s (%s, %s) applied for membership", application.FullName, application.StudentNumber, application.Department),
		Priority:            "medium",
		RelatedResourceType: "membership_application",
		RelatedResourceID:   &application.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.config.Email.BoardInbox == "" {
		return nil
	}

	data := map[string]interface{}{
		"FullName":      application.FullName,
		"StudentNumber": application.StudentNumber,
		"Department":    application.Department,
		"IsEligible":    application.IsEligible,
		"ReviewURL":     fmt.Sprintf("%s/admin/applications/%s", s.config.Frontend.BaseURL, application.ID),
	}

	subject := "New membership application from " + application.FullName
	template := s.getEmailTemplate("application_submitted")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(s.config.Email.BoardInbox, subject, body)
}

func (s *NotificationService) SendApplicationApprovedNotification(application *models.MembershipApplication, user *models.User) error {
	notification := &models.AdminNotification{
		Type:                "membership_application",
		Title:               "Membership Application Approved",
		Message:             fmt.Sprintf("Application of %s (%s) was approved, account %s created", application.FullName, application.StudentNumber, user.Username),
		Priority:            "low",
		RelatedResourceType: "membership_application",
		RelatedResourceID:   &application.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	// The new member sets their own password through the reset flow.
	data := map[string]interface{}{
		"Name":          user.FullName(),
		"Username":      user.Username,
		"CommunityName": s.config.Community.Name,
		"ResetURL":      fmt.Sprintf("%s/forgot-password", s.config.Frontend.BaseURL),
	}

	subject := "Your membership has been approved"
	template := s.getEmailTemplate("application_approved")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendApplicationRejectedNotification(application *models.MembershipApplication) error {
	notification := &models.AdminNotification{
		Type:                "membership_application",
		Title:               "Membership Application Rejected",
		Message:             fmt.Sprintf("Application of %s (%s) was rejected", application.FullName, application.StudentNumber),
		Priority:            "low",
		RelatedResourceType: "membership_application",
		RelatedResourceID:   &application.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// Contact form notifications
func (s *NotificationService) SendContactMessageNotification(message *models.ContactMessage) error {
	notification := &models.AdminNotification{
		Type:                "contact_message",
		Title:               "New Contact Message",
		Message:             fmt.Sprintf("%s <%s>: %s", message.Name, message.Email, message.Subject),
		Priority:            "medium",
		RelatedResourceType: "contact_message",
		RelatedResourceID:   &message.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	data := map[string]interface{}{
		"Name":    message.Name,
		"Email":   message.Email,
		"Subject": message.Subject,
		"Body":    message.Body,
	}

	// Acknowledge the sender; failure must not block the board forward
	ackTemplate := s.getEmailTemplate("contact_ack")
	if ackBody, err := s.renderTemplate(ackTemplate.Body, data); err == nil {
		if err := s.sendEmail(message.Email, ackTemplate.Subject, ackBody); err != nil {
			logrus.WithError(err).Warn("Failed to send contact acknowledgement")
		}
	}

	if s.config.Email.BoardInbox == "" {
		return nil
	}

	subject := "Contact form: " + message.Subject
	template := s.getEmailTemplate("contact_message")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(s.config.Email.BoardInbox, subject, body)
}

// Payment notifications
func (s *NotificationService) SendPaymentConfirmationEmail(user *models.User, payment *models.DuesPayment) error {
	data := map[string]interface{}{
		"Name":          user.FullName(),
		"Amount":        payment.Amount,
		"Currency":      payment.Currency,
		"CommunityName": s.config.Community.Name,
	}

	subject := "Dues payment received"
	template := s.getEmailTemplate("payment_confirmation")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Generic notification methods
func (s *NotificationService) SendCustomNotification(req *NotificationRequest) error {
	// Create in-app notification
	notification := &models.AdminNotification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	// Send email if requested
	if req.SendEmail {
		var user models.User
		if err := s.db.First(&user, req.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}

		return s.sendEmail(user.Email, req.Title, req.Message)
	}

	return nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SendGridAPIKey == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped, SendGrid not configured")
		return nil
	}

	from := mail.NewEmail(s.config.Email.FromName, s.config.Email.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", body)

	client := sendgrid.NewSendClient(s.config.Email.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Name}}!</h2>
	<p>Thank you for joining {{.CommunityName}}. Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Best regards,<br>{{.CommunityName}}</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Password Reset</h2>
	<p>Hello {{.Name}},</p>
	<p>We received a request to reset your password. The link below expires in {{.ExpiresIn}}.</p>
	<a href="{{.ResetURL}}">Reset Password</a>
	<p>If you did not request this, you can safely ignore this email.</p>
</body>
</html>`,
		},
		"application_submitted": {
			Subject: "New Membership Application",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Membership Application</h2>
	<p>{{.FullName}} ({{.StudentNumber}}, {{.Department}}) has applied for membership.</p>
	<p>Roster check: {{if .IsEligible}}found on the roster{{else}}not found on the roster{{end}}.</p>
	<a href="{{.ReviewURL}}">Review Application</a>
</body>
</html>`,
		},
		"application_approved": {
			Subject: "Membership Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome to {{.CommunityName}}!</h2>
	<p>Hello {{.Name}},</p>
	<p>Your membership application has been approved. Your account username is <strong>{{.Username}}</strong>.</p>
	<p>Set your password using the link below before signing in for the first time:</p>
	<a href="{{.ResetURL}}">Set Password</a>
</body>
</html>`,
		},
		"contact_ack": {
			Subject: "We received your message",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you, {{.Name}}</h2>
	<p>We received your message "{{.Subject}}" and will get back to you soon.</p>
</body>
</html>`,
		},
		"contact_message": {
			Subject: "Contact Message",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Subject}}</h2>
	<p>From: {{.Name}} &lt;{{.Email}}&gt;</p>
	<p>{{.Body}}</p>
</body>
</html>`,
		},
		"payment_confirmation": {
			Subject: "Dues Payment Received",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Payment Received</h2>
	<p>Hello {{.Name}},</p>
	<p>Your dues payment of {{.Amount}} {{.Currency}} has been received. Thank you!</p>
	<p>{{.CommunityName}}</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
