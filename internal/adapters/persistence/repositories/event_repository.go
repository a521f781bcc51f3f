package repositories

import (
	"context"

	"nonprofit-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event with its registrants
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("Registrants").Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes an event and its registrants; gorm.ErrRecordNotFound when absent
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRegistrant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListSummaries lists events soonest first with pagination. Registrants
// are counted in the query, not loaded.
func (r *eventRepository) ListSummaries(ctx context.Context, offset, limit int) ([]*models.EventSummary, int64, error) {
	var summaries []*models.EventSummary
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	registrantCount := r.db.
		Model(&models.EventRegistrant{}).
		Select("COUNT(*)").
		Where("event_registrants.event_id = events.id")

	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Select("events.id, events.title, events.description, events.location, events.starts_at, (?) AS registrant_count", registrantCount).
		Order("events.starts_at ASC").
		Offset(offset).
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// ListWithRegistrants lists every event with registrants (admin export)
func (r *eventRepository) ListWithRegistrants(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	if err := r.db.WithContext(ctx).Preload("Registrants").Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// HasRegistrant checks if an email is registered for an event
func (r *eventRepository) HasRegistrant(ctx context.Context, eventID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistrant{}).
		Where("event_id = ? AND email = ?", eventID, email).
		Count(&count).Error
	return count > 0, err
}

// AddRegistrant inserts a registrant; the (event_id, email) unique index rejects duplicates
func (r *eventRepository) AddRegistrant(ctx context.Context, registrant *models.EventRegistrant) error {
	return r.db.WithContext(ctx).Create(registrant).Error
}
