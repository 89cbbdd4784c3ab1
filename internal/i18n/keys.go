// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthNotEligible        = "auth.not_eligible"
	KeyAuthPasswordReset      = "auth.password_reset"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// User management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserUpdated        = "user.updated"

	// Membership applications
	KeyApplicationSubmitted = "application.submitted"
	KeyApplicationExists    = "application.exists"
	KeyApplicationNotFound  = "application.not_found"
	KeyApplicationApproved  = "application.approved"
	KeyApplicationRejected  = "application.rejected"
	KeyApplicationProcessed = "application.already_processed"

	// Events
	KeyEventCreated  = "event.created"
	KeyEventUpdated  = "event.updated"
	KeyEventDeleted  = "event.deleted"
	KeyEventNotFound = "event.not_found"

	// Gallery
	KeyGalleryUploaded = "gallery.uploaded"
	KeyGalleryDeleted  = "gallery.deleted"
	KeyGalleryNotFound = "gallery.not_found"

	// Contact
	KeyContactReceived = "contact.received"
	KeyContactResolved = "contact.resolved"
	KeyContactNotFound = "contact.not_found"

	// Song suggestions
	KeySuggestionCreated  = "suggestion.created"
	KeySuggestionVoted    = "suggestion.voted"
	KeySuggestionDeleted  = "suggestion.deleted"
	KeySuggestionNotFound = "suggestion.not_found"

	// Payments
	KeyPaymentCreated       = "payment.created"
	KeyPaymentConfirmed     = "payment.confirmed"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentNotFound      = "payment.not_found"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
