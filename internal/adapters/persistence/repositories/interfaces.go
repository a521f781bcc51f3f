package repositories

import (
	"context"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/core/domain"
)

// AdminRepository defines admin repository interface.
// The Consume* methods are conditional updates: they report true only when
// the stored digest matched and was cleared by this call.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.Admin, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.Admin, error)
	GetSuperAdmin(ctx context.Context) (*models.Admin, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Delete(ctx context.Context, id uint) error

	SetResetToken(ctx context.Context, id uint, tokenHash string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, id uint, tokenHash string, now time.Time, passwordHash string) (bool, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	SetApprovalCode(ctx context.Context, id uint, codeHash string) error
	ConsumeApprovalCode(ctx context.Context, id uint, codeHash string) (bool, error)
}

// SubscriberRepository defines subscriber repository interface
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListEmails(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]*models.Subscriber, error)
}

// VolunteerRepository defines volunteer repository interface
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *models.Volunteer) error
	List(ctx context.Context) ([]*models.Volunteer, error)
}

// ContactRepository defines contact message repository interface
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context) ([]*models.ContactMessage, error)
}

// DonationRepository defines donation repository interface
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Donation, error)
	List(ctx context.Context) ([]*models.Donation, error)
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Delete(ctx context.Context, id uint) error
	ListSummaries(ctx context.Context, offset, limit int) ([]*models.EventSummary, int64, error)
	ListWithRegistrants(ctx context.Context) ([]*models.Event, error)
	HasRegistrant(ctx context.Context, eventID uint, email string) (bool, error)
	AddRegistrant(ctx context.Context, registrant *models.EventRegistrant) error
}
