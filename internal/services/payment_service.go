// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

// PaymentService handles membership dues paid online through Stripe, the
// alternative to uploading a bank-transfer receipt with an application.
type PaymentService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
}

type CreateDuesIntentRequest struct {
	StudentNumber string `json:"student_number" validate:"required,student_number"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type PaymentIntentResponse struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	ClientSecret string    `json:"client_secret"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, notificationService *NotificationService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey
	return &PaymentService{
		db:                  db,
		config:              config,
		notificationService: notificationService,
	}
}

// CreateDuesIntent opens a Stripe payment intent for the configured dues
// amount. The student number ties the payment to a later application.
func (s *PaymentService) CreateDuesIntent(userID *uuid.UUID, req *CreateDuesIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	amount := s.config.Payment.DuesAmount
	currency := s.config.Payment.DuesCurrency
	if amount <= 0 {
		return nil, errors.New("dues amount is not configured")
	}

	amountInCents := int64(math.Round(amount * 100))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("student_number", req.StudentNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment := &models.DuesPayment{
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		StripeIntentID: pi.ID,
		Status:         models.PaymentStatusPending,
		StudentNumber:  req.StudentNumber,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &PaymentIntentResponse{
		PaymentID:    payment.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

// ConfirmPayment reconciles the local record with Stripe's view of the
// intent. Safe to call repeatedly.
func (s *PaymentService) ConfirmPayment(req *ConfirmPaymentRequest) (*models.DuesPayment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var payment models.DuesPayment
	if err := s.db.Where("stripe_intent_id = ?", req.PaymentIntentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payment not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if payment.Status != models.PaymentStatusSucceeded {
			payment.Status = models.PaymentStatusSucceeded
			if err := s.db.Save(&payment).Error; err != nil {
				return nil, fmt.Errorf("failed to update payment: %w", err)
			}
			go s.sendConfirmationEmail(&payment)
		}
	case stripe.PaymentIntentStatusCanceled:
		payment.Status = models.PaymentStatusFailed
		if err := s.db.Save(&payment).Error; err != nil {
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		// Still in flight, leave as pending
	default:
		return nil, fmt.Errorf("unexpected payment intent status: %s", pi.Status)
	}

	return &payment, nil
}

func (s *PaymentService) GetPayment(id uuid.UUID) (*models.DuesPayment, error) {
	var payment models.DuesPayment
	if err := s.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payment not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &payment, nil
}

func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.DuesPayment, int64, error) {
	query := s.db.Model(&models.DuesPayment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payments []models.DuesPayment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return payments, total, nil
}

func (s *PaymentService) sendConfirmationEmail(payment *models.DuesPayment) {
	if s.notificationService == nil || payment.UserID == nil {
		return
	}

	var user models.User
	if err := s.db.First(&user, *payment.UserID).Error; err != nil {
		return
	}
	s.notificationService.SendPaymentConfirmationEmail(&user, payment)
}
