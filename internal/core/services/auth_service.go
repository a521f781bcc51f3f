package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/jwt"
	"nonprofit-api/internal/pkg/otp"
	"nonprofit-api/internal/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthConfig holds the settings the auth service needs
type AuthConfig struct {
	JWTSecret       string
	AccessTokenMins int
	ResetCodeTTL    time.Duration
}

// AuthService handles admin authentication and password reset
type AuthService struct {
	adminRepo    repositories.AdminRepository
	notification *NotificationService
	cfg          AuthConfig
	logger       *zap.Logger

	now     Clock
	newCode CodeGenerator
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	notification *NotificationService,
	cfg AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg.ResetCodeTTL <= 0 {
		cfg.ResetCodeTTL = 15 * time.Minute
	}
	return &AuthService{
		adminRepo:    adminRepo,
		notification: notification,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		newCode:      otp.New,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the authenticated identity plus its session token
type LoginResult struct {
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
}

// Login authenticates an admin by username and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if !password.Verify(input.Password, admin.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(string(admin.Role))
	if err != nil {
		return nil, fmt.Errorf("admin %d: %w", admin.ID, err)
	}

	token, err := jwt.GenerateAccessToken(admin.ID, admin.Username, role.String(), s.cfg.JWTSecret, s.cfg.AccessTokenMins)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("admin logged in", zap.String("username", admin.Username), zap.String("role", role.String()))

	return &LoginResult{
		Username:    admin.Username,
		Role:        role,
		AccessToken: token,
		ExpiresIn:   s.cfg.AccessTokenMins * 60,
	}, nil
}

// RequestPasswordReset issues a reset code to the admin matching identifier
// (username or email) and emails it
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.ErrAccountNotFound
	}

	admin, err := s.adminRepo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("find admin: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	expiry := s.now().Add(s.cfg.ResetCodeTTL)
	if err := s.adminRepo.SetResetToken(ctx, admin.ID, password.HashToken(code), expiry); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.notification.SendResetCode(ctx, admin, code, s.cfg.ResetCodeTTL); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}

	s.logger.Info("password reset requested", zap.Uint("admin_id", admin.ID))
	return nil
}

// ResetPassword consumes a reset code and replaces the admin's password
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if code == "" {
		return domain.ErrInvalidOrExpiredCode
	}
	if err := validation.Validate(newPassword, validation.Required, validation.By(passwordRule)); err != nil {
		return invalidInput(fmt.Errorf("new_password: %w", err))
	}

	now := s.now()
	tokenHash := password.HashToken(code)

	admin, err := s.adminRepo.GetByResetToken(ctx, tokenHash, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("find reset code: %w", err)
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.adminRepo.ConsumeResetToken(ctx, admin.ID, tokenHash, now, hashed)
	if err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if !ok {
		// lost the race to a concurrent reset or the code expired in between
		return domain.ErrInvalidOrExpiredCode
	}

	s.logger.Info("password reset completed", zap.Uint("admin_id", admin.ID))
	return nil
}

// Me returns the admin behind an authenticated identity
func (s *AuthService) Me(ctx context.Context, username string) (*models.AdminResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return admin.ToResponse(), nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWTSecret)
}
