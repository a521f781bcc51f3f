package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IntakeService stores public form submissions
type IntakeService struct {
	subscriberRepo repositories.SubscriberRepository
	volunteerRepo  repositories.VolunteerRepository
	contactRepo    repositories.ContactRepository
	notification   *NotificationService
	logger         *zap.Logger
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	subscriberRepo repositories.SubscriberRepository,
	volunteerRepo repositories.VolunteerRepository,
	contactRepo repositories.ContactRepository,
	notification *NotificationService,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		subscriberRepo: subscriberRepo,
		volunteerRepo:  volunteerRepo,
		contactRepo:    contactRepo,
		notification:   notification,
		logger:         logger,
	}
}

// SubscribeInput represents a newsletter signup
type SubscribeInput struct {
	Email string `json:"email"`
}

// Validate checks the signup
func (i SubscribeInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
	)
}

// VolunteerInput represents a volunteer application
type VolunteerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
	Message  string `json:"message"`
}

// Validate checks the application
func (i VolunteerInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Phone, validation.Length(0, 30)),
		validation.Field(&i.Interest, validation.Length(0, 100)),
	)
}

// ContactInput represents a contact form message
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks the message
func (i ContactInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Subject, validation.Length(0, 200)),
		validation.Field(&i.Message, validation.Required),
	)
}

// Subscribe adds an email to the newsletter audience, once
func (s *IntakeService) Subscribe(ctx context.Context, input *SubscribeInput) (*models.Subscriber, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	exists, err := s.subscriberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check subscriber: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadySubscribed
	}

	subscriber := &models.Subscriber{Email: input.Email}
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	s.notification.NotifySubscribed(ctx, subscriber.Email)
	s.logger.Info("new subscriber", zap.Uint("subscriber_id", subscriber.ID))
	return subscriber, nil
}

// ApplyVolunteer stores a volunteer application
func (s *IntakeService) ApplyVolunteer(ctx context.Context, input *VolunteerInput) (*models.Volunteer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	volunteer := &models.Volunteer{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    strings.TrimSpace(input.Phone),
		Interest: strings.TrimSpace(input.Interest),
		Message:  input.Message,
	}
	if err := s.volunteerRepo.Create(ctx, volunteer); err != nil {
		return nil, fmt.Errorf("create volunteer: %w", err)
	}

	s.notification.NotifyVolunteerReceived(ctx, volunteer)
	s.logger.Info("volunteer application", zap.Uint("volunteer_id", volunteer.ID))
	return volunteer, nil
}

// SubmitContact stores a contact form message
func (s *IntakeService) SubmitContact(ctx context.Context, input *ContactInput) (*models.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	message := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
	}
	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	s.notification.NotifyContactReceived(ctx, message)
	s.logger.Info("contact message", zap.Uint("message_id", message.ID))
	return message, nil
}
