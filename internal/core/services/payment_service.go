package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentConfig holds checkout settings
type PaymentConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
	MinAmount  float64
}

// PaymentService opens hosted checkouts and records paid donations
type PaymentService struct {
	gateway      PaymentGateway
	donationRepo repositories.DonationRepository
	notification *NotificationService
	cfg          PaymentConfig
	logger       *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	gateway PaymentGateway,
	donationRepo repositories.DonationRepository,
	notification *NotificationService,
	cfg PaymentConfig,
	logger *zap.Logger,
) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = 1
	}
	return &PaymentService{
		gateway:      gateway,
		donationRepo: donationRepo,
		notification: notification,
		cfg:          cfg,
		logger:       logger,
	}
}

// CheckoutInput represents a donation checkout request. Amount is in
// major currency units.
type CheckoutInput struct {
	Amount   float64 `json:"amount"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Currency string  `json:"currency"`
	Purpose  string  `json:"purpose"`
}

// Validate checks the checkout request
func (i CheckoutInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Amount, validation.Required),
		validation.Field(&i.Email, is.Email),
		validation.Field(&i.Name, validation.Length(0, 100)),
		validation.Field(&i.Currency, validation.Length(3, 3)),
	)
}

// CheckoutResult is what the browser needs to continue to checkout
type CheckoutResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// VerifyResult echoes the collaborator's view of a checkout
type VerifyResult struct {
	SessionID     string            `json:"session_id"`
	PaymentStatus string            `json:"payment_status"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
	DonationID    uint              `json:"donation_id"`
}

// CreateCheckoutSession opens a hosted checkout for a donation
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	input.Currency = strings.ToLower(strings.TrimSpace(input.Currency))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	if math.IsNaN(input.Amount) || input.Amount < s.cfg.MinAmount {
		return nil, domain.ErrInvalidAmount
	}

	currency := input.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}

	description := "Donation"
	if input.Purpose != "" {
		description = "Donation: " + input.Purpose
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, domain.CheckoutRequest{
		AmountCents: int64(math.Round(input.Amount * 100)),
		Currency:    currency,
		Description: description,
		Email:       input.Email,
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
		Metadata: map[string]string{
			"name":    input.Name,
			"email":   input.Email,
			"purpose": input.Purpose,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info("checkout session created", zap.String("session_id", session.ID), zap.Float64("amount", input.Amount))
	return &CheckoutResult{ID: session.ID, URL: session.URL}, nil
}

// VerifyPayment checks a checkout with the collaborator and records the
// donation the first time it is seen paid
func (s *PaymentService) VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, invalidInput(errors.New("session_id: cannot be blank"))
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	if session.PaymentStatus != domain.PaymentStatusPaid {
		return nil, domain.ErrPaymentNotCompleted
	}

	donation, err := s.recordDonation(ctx, session)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		SessionID:     session.ID,
		PaymentStatus: session.PaymentStatus,
		Amount:        donation.Amount,
		Currency:      donation.Currency,
		Metadata:      session.Metadata,
		DonationID:    donation.ID,
	}, nil
}

func (s *PaymentService) recordDonation(ctx context.Context, session *domain.CheckoutSession) (*models.Donation, error) {
	existing, err := s.donationRepo.GetBySessionID(ctx, session.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find donation: %w", err)
	}

	metadata := make(map[string]interface{}, len(session.Metadata))
	for k, v := range session.Metadata {
		metadata[k] = v
	}

	email := session.CustomerEmail
	if email == "" {
		email = session.Metadata["email"]
	}

	donation := &models.Donation{
		SessionID:     session.ID,
		Name:          session.Metadata["name"],
		Email:         email,
		Amount:        float64(session.AmountTotal) / 100,
		Currency:      session.Currency,
		PaymentStatus: session.PaymentStatus,
		Metadata:      metadata,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// recorded by a concurrent verify of the same session
			return s.donationRepo.GetBySessionID(ctx, session.ID)
		}
		return nil, fmt.Errorf("record donation: %w", err)
	}

	s.notification.NotifyDonationReceipt(ctx, donation)
	s.logger.Info("donation recorded", zap.String("session_id", session.ID), zap.Float64("amount", donation.Amount))
	return donation, nil
}
