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
	"nonprofit-api/internal/pkg/pagination"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const eventListCachePrefix = "events:list:"

// EventService manages events and their registrants
type EventService struct {
	eventRepo    repositories.EventRepository
	notification *NotificationService
	cache        Cache
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewEventService creates a new event service. cache may be nil.
func NewEventService(
	eventRepo repositories.EventRepository,
	notification *NotificationService,
	cache Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		notification: notification,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// CreateEventInput represents a new event
type CreateEventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

// Validate checks the event fields
func (i CreateEventInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&i.Location, validation.Length(0, 200)),
		validation.Field(&i.StartsAt, validation.Required),
	)
}

// RegisterInput represents an event registration
type RegisterInput struct {
	EventID uint   `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Validate checks the registration fields
func (i RegisterInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.EventID, validation.Required),
		validation.Field(&i.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&i.Email, validation.Required, is.Email),
	)
}

// EventPage is one page of the public listing
type EventPage struct {
	Events []*models.EventSummary `json:"events"`
	Meta   *pagination.Meta       `json:"meta"`
}

// CreateEvent stores a new event
func (s *EventService) CreateEvent(ctx context.Context, requestor string, input *CreateEventInput) (*models.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		CreatedBy:   requestor,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("event created", zap.String("by", requestor), zap.Uint("event_id", event.ID))
	return event, nil
}

// DeleteEvent removes an event with its registrants
func (s *EventService) DeleteEvent(ctx context.Context, requestor string, id uint) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("event deleted", zap.String("by", requestor), zap.Uint("event_id", id))
	return nil
}

// ListEvents returns one page of events, soonest first
func (s *EventService) ListEvents(ctx context.Context, params *pagination.Params) (*EventPage, error) {
	key := fmt.Sprintf("%s%d:%d", eventListCachePrefix, params.Page, params.Limit)

	if s.cache != nil {
		var cached EventPage
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("event cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	events, total, err := s.eventRepo.ListSummaries(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*models.EventSummary{}
	}

	page := &EventPage{
		Events: events,
		Meta:   pagination.GetMeta(params, total),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, page, s.cacheTTL); err != nil {
			s.logger.Warn("event cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// Register adds a registrant to an event, once per email, then sends
// the ticket. A failed ticket email does not undo the registration.
func (s *EventService) Register(ctx context.Context, input *RegisterInput) (*models.EventRegistrant, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	exists, err := s.eventRepo.HasRegistrant(ctx, event.ID, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check registrant: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	registrant := &models.EventRegistrant{
		EventID: event.ID,
		Name:    input.Name,
		Email:   input.Email,
	}
	if err := s.eventRepo.AddRegistrant(ctx, registrant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("add registrant: %w", err)
	}

	s.invalidate(ctx)
	s.notification.NotifyEventTicket(ctx, event, registrant)

	s.logger.Info("event registration", zap.Uint("event_id", event.ID), zap.Uint("registrant_id", registrant.ID))
	return registrant, nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, eventListCachePrefix); err != nil {
		s.logger.Warn("event cache invalidation failed", zap.Error(err))
	}
}
