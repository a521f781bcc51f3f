package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService handles role-gated admin account management
type AdminService struct {
	adminRepo     repositories.AdminRepository
	subscriberRep repositories.SubscriberRepository
	volunteerRepo repositories.VolunteerRepository
	contactRepo   repositories.ContactRepository
	donationRepo  repositories.DonationRepository
	eventRepo     repositories.EventRepository
	logger        *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	adminRepo repositories.AdminRepository,
	subscriberRepo repositories.SubscriberRepository,
	volunteerRepo repositories.VolunteerRepository,
	contactRepo repositories.ContactRepository,
	donationRepo repositories.DonationRepository,
	eventRepo repositories.EventRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		adminRepo:     adminRepo,
		subscriberRep: subscriberRepo,
		volunteerRepo: volunteerRepo,
		contactRepo:   contactRepo,
		donationRepo:  donationRepo,
		eventRepo:     eventRepo,
		logger:        logger,
	}
}

// AddAdminInput represents the new admin account
type AddAdminInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the new account fields
func (i AddAdminInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required, validation.By(passwordRule)),
	)
}

// AdminData is the bulk read served to the dashboard. Admin secrets are
// never part of it.
type AdminData struct {
	Admins          []*models.AdminResponse  `json:"admins"`
	Subscribers     []*models.Subscriber     `json:"subscribers"`
	Volunteers      []*models.Volunteer      `json:"volunteers"`
	ContactMessages []*models.ContactMessage `json:"contact_messages"`
	Donations       []*models.Donation       `json:"donations"`
	Events          []*models.Event          `json:"events"`
}

// Authorize resolves the requestor and fails unless it may manage admins
func (s *AdminService) Authorize(ctx context.Context, requestor string) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, requestor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, fmt.Errorf("resolve requestor: %w", err)
	}

	role, err := domain.ParseRole(string(admin.Role))
	if err != nil || !role.CanManageAdmins() {
		return nil, domain.ErrAccessDenied
	}
	return admin, nil
}

// AddAdmin creates a new admin account. The role check runs before the
// payload is looked at, and the new account is always a plain admin.
func (s *AdminService) AddAdmin(ctx context.Context, requestor string, input *AddAdminInput) (*models.AdminResponse, error) {
	if _, err := s.Authorize(ctx, requestor); err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	exists, err := s.adminRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &models.Admin{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Role:     domain.RoleAdmin,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin created", zap.String("by", requestor), zap.String("username", admin.Username))
	return admin.ToResponse(), nil
}

// DeleteAdmin removes another admin account
func (s *AdminService) DeleteAdmin(ctx context.Context, requestor string, targetID uint) error {
	self, err := s.Authorize(ctx, requestor)
	if err != nil {
		return err
	}

	if self.ID == targetID {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.adminRepo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdminNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	s.logger.Info("admin deleted", zap.String("by", requestor), zap.Uint("admin_id", targetID))
	return nil
}

// ListAdmins returns every admin account, redacted
func (s *AdminService) ListAdmins(ctx context.Context) ([]*models.AdminResponse, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toAdminResponses(admins), nil
}

// GetData reads every collection for the dashboard
func (s *AdminService) GetData(ctx context.Context) (*AdminData, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	subscribers, err := s.subscriberRep.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	volunteers, err := s.volunteerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	messages, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	donations, err := s.donationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	events, err := s.eventRepo.ListWithRegistrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return &AdminData{
		Admins:          toAdminResponses(admins),
		Subscribers:     subscribers,
		Volunteers:      volunteers,
		ContactMessages: messages,
		Donations:       donations,
		Events:          events,
	}, nil
}

func toAdminResponses(admins []*models.Admin) []*models.AdminResponse {
	out := make([]*models.AdminResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.ToResponse())
	}
	return out
}

func passwordRule(value interface{}) error {
	s, _ := value.(string)
	if !password.ValidatePassword(s) {
		return fmt.Errorf("must be at least %d characters", password.MinLength)
	}
	return nil
}

// invalidInput wraps a validation failure so handlers can answer 400 with its text
func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
}
