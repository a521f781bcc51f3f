package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	adminRepo repositories.AdminRepository
	cfg       SuperAdminConfig
	log       *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(adminRepo repositories.AdminRepository, cfg SuperAdminConfig, log *zap.Logger) *Seeder {
	return &Seeder{adminRepo: adminRepo, cfg: cfg, log: log}
}

// Run executes all seeders. A missing bootstrap configuration or an
// existing super admin is not an error here.
func (s *Seeder) Run(ctx context.Context) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		s.log.Warn("super admin seed skipped: SUPERADMIN_USERNAME/SUPERADMIN_PASSWORD not set")
		return nil
	}

	_, err := s.SeedSuperAdmin(ctx)
	if errors.Is(err, domain.ErrSuperAdminExists) {
		return nil
	}
	return err
}

// SeedSuperAdmin creates the super admin from configuration. Only one super
// admin may exist; ErrSuperAdminExists is returned otherwise.
func (s *Seeder) SeedSuperAdmin(ctx context.Context) (*models.Admin, error) {
	existing, err := s.adminRepo.GetSuperAdmin(ctx)
	if err == nil {
		s.log.Info("super admin already present", zap.String("username", existing.Username))
		return nil, domain.ErrSuperAdminExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find super admin: %w", err)
	}

	username := strings.TrimSpace(s.cfg.Username)
	email := strings.ToLower(strings.TrimSpace(s.cfg.Email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: super admin username and email are required", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(s.cfg.Password) {
		return nil, fmt.Errorf("%w: super admin password must be at least %d characters", domain.ErrInvalidInput, password.MinLength)
	}

	exists, err := s.adminRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hashed, err := password.Hash(s.cfg.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     domain.RoleSuperAdmin,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info("super admin created", zap.String("username", admin.Username))
	return admin, nil
}
