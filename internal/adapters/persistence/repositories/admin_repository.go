package repositories

import (
	"context"
	"strings"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/core/domain"

	"gorm.io/gorm"
)

// adminRepository implements AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create creates a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByUsername gets an admin by username
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByUsernameOrEmail gets an admin whose username equals identifier or
// whose email equals it case-insensitively. Emails are stored lowercased.
func (r *adminRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Order("id").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByResetToken gets the admin holding an unexpired reset token digest
func (r *adminRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("reset_token = ?", tokenHash).
		Where("reset_token_expiry > ?", now).
		Order("id").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetSuperAdmin gets the (first) super admin
func (r *adminRepository) GetSuperAdmin(ctx context.Context) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("role = ?", string(domain.RoleSuperAdmin)).
		Order("id").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByUsernameOrEmail checks if username or email is taken
func (r *adminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// CountByRole counts admins with a role
func (r *adminRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Where("role = ?", string(role)).Count(&count).Error
	return count, err
}

// List lists all admins
func (r *adminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	var admins []*models.Admin
	if err := r.db.WithContext(ctx).Order("id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Delete deletes an admin; gorm.ErrRecordNotFound when nothing was deleted
func (r *adminRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetResetToken stores a reset token digest and its expiry in one write
func (r *adminRepository) SetResetToken(ctx context.Context, id uint, tokenHash string, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token":        tokenHash,
			"reset_token_expiry": expiry,
		}).Error
}

// ConsumeResetToken replaces the password and clears token + expiry,
// but only while the same unexpired digest is still stored
func (r *adminRepository) ConsumeResetToken(ctx context.Context, id uint, tokenHash string, now time.Time, passwordHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Where("reset_token = ?", tokenHash).
		Where("reset_token_expiry > ?", now).
		Updates(map[string]interface{}{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearExpiredResetTokens clears token + expiry on every admin whose token expired
func (r *adminRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("reset_token_expiry IS NOT NULL").
		Where("reset_token_expiry <= ?", now).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	return result.RowsAffected, result.Error
}

// SetApprovalCode stores a broadcast approval code digest, replacing any pending one
func (r *adminRepository) SetApprovalCode(ctx context.Context, id uint, codeHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Update("approval_code", codeHash).Error
}

// ConsumeApprovalCode clears the approval code only if it still equals codeHash
func (r *adminRepository) ConsumeApprovalCode(ctx context.Context, id uint, codeHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Where("approval_code = ?", codeHash).
		Update("approval_code", nil)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
