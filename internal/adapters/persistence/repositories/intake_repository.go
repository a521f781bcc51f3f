package repositories

import (
	"context"

	"nonprofit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// Volunteer Repository
// ============================================================

type volunteerRepository struct {
	db *gorm.DB
}

// NewVolunteerRepository creates a new volunteer repository
func NewVolunteerRepository(db *gorm.DB) VolunteerRepository {
	return &volunteerRepository{db: db}
}

func (r *volunteerRepository) Create(ctx context.Context, volunteer *models.Volunteer) error {
	return r.db.WithContext(ctx).Create(volunteer).Error
}

func (r *volunteerRepository) List(ctx context.Context) ([]*models.Volunteer, error) {
	var volunteers []*models.Volunteer
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&volunteers).Error; err != nil {
		return nil, err
	}
	return volunteers, nil
}

// ============================================================
// Contact Message Repository
// ============================================================

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	var messages []*models.ContactMessage
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ============================================================
// Donation Repository
// ============================================================

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) List(ctx context.Context) ([]*models.Donation, error) {
	var donations []*models.Donation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}
