package repositories

import (
	"context"

	"nonprofit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// subscriberRepository implements SubscriberRepository interface
type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

// Create creates a subscriber; the unique index on email rejects duplicates
func (r *subscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

// ExistsByEmail checks if an email is already subscribed
func (r *subscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ListEmails returns every subscriber address
func (r *subscriberRepository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Order("id").Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// List lists all subscribers
func (r *subscriberRepository) List(ctx context.Context) ([]*models.Subscriber, error) {
	var subscribers []*models.Subscriber
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}
