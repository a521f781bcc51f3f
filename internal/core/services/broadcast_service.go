package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/otp"
	"nonprofit-api/internal/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BroadcastService gates newsletter broadcasts behind super admin approval.
// Approval codes do not expire; a pending code stays valid until it is
// consumed or replaced by a newer request.
type BroadcastService struct {
	adminRepo      repositories.AdminRepository
	subscriberRepo repositories.SubscriberRepository
	notification   *NotificationService
	logger         *zap.Logger

	newCode CodeGenerator
}

// NewBroadcastService creates a new broadcast service
func NewBroadcastService(
	adminRepo repositories.AdminRepository,
	subscriberRepo repositories.SubscriberRepository,
	notification *NotificationService,
	logger *zap.Logger,
) *BroadcastService {
	return &BroadcastService{
		adminRepo:      adminRepo,
		subscriberRepo: subscriberRepo,
		notification:   notification,
		logger:         logger,
		newCode:        otp.New,
	}
}

// NewsletterInput represents a broadcast request
type NewsletterInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Otp     string `json:"otp"`
}

// Validate checks the newsletter content
func (i NewsletterInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.Message, validation.Required),
	)
}

// NewsletterResult reports how many subscribers the broadcast went to
type NewsletterResult struct {
	Count int `json:"count"`
}

// RequestBroadcastOtp issues a fresh approval code to the super admin,
// replacing any code still pending
func (s *BroadcastService) RequestBroadcastOtp(ctx context.Context, requestor, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return invalidInput(errors.New("subject: cannot be blank"))
	}

	if _, err := s.adminRepo.GetByUsername(ctx, requestor); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccessDenied
		}
		return fmt.Errorf("find requestor: %w", err)
	}

	superAdmin, err := s.superAdmin(ctx)
	if err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate approval code: %w", err)
	}

	if err := s.adminRepo.SetApprovalCode(ctx, superAdmin.ID, password.HashToken(code)); err != nil {
		return fmt.Errorf("store approval code: %w", err)
	}

	if err := s.notification.SendBroadcastApproval(ctx, superAdmin, requestor, subject, code); err != nil {
		return fmt.Errorf("send approval code: %w", err)
	}

	s.logger.Info("broadcast approval requested", zap.String("by", requestor), zap.String("subject", subject))
	return nil
}

// SendNewsletter authorizes the sender and mails every subscriber in one
// BCC message. A super admin needs no code; anyone else must present the
// pending approval code, which is consumed on success.
func (s *BroadcastService) SendNewsletter(ctx context.Context, requestor string, input *NewsletterInput) (*NewsletterResult, error) {
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	sender, err := s.adminRepo.GetByUsername(ctx, requestor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, fmt.Errorf("resolve sender: %w", err)
	}

	role, err := domain.ParseRole(string(sender.Role))
	if err != nil {
		return nil, domain.ErrAccessDenied
	}

	if role.NeedsBroadcastApproval() {
		if err := s.consumeApproval(ctx, input.Otp); err != nil {
			return nil, err
		}
	}

	recipients, err := s.subscriberRepo.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	if len(recipients) > 0 {
		if err := s.notification.SendNewsletter(ctx, recipients, input.Subject, input.Message); err != nil {
			return nil, fmt.Errorf("send newsletter: %w", err)
		}
	}

	s.logger.Info("newsletter sent",
		zap.String("by", requestor),
		zap.String("role", role.String()),
		zap.Int("recipients", len(recipients)),
	)
	return &NewsletterResult{Count: len(recipients)}, nil
}

func (s *BroadcastService) consumeApproval(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidOtp
	}

	superAdmin, err := s.superAdmin(ctx)
	if err != nil {
		return err
	}

	ok, err := s.adminRepo.ConsumeApprovalCode(ctx, superAdmin.ID, password.HashToken(code))
	if err != nil {
		return fmt.Errorf("consume approval code: %w", err)
	}
	if !ok {
		return domain.ErrInvalidOtp
	}
	return nil
}

func (s *BroadcastService) superAdmin(ctx context.Context) (*models.Admin, error) {
	admin, err := s.adminRepo.GetSuperAdmin(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSuperAdminNotFound
		}
		return nil, fmt.Errorf("find super admin: %w", err)
	}
	return admin, nil
}
