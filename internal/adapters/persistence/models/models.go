package models

import (
	"time"

	"nonprofit-api/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Admin accounts
// ============================================================

// Admin represents admins table.
// ResetToken/ResetTokenExpiry are written and cleared together; both tokens
// and ApprovalCode hold SHA-256 digests, never the code itself.
type Admin struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Username         string      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password         string      `gorm:"size:255;not null" json:"-"`
	Role             domain.Role `gorm:"size:20;not null;default:'admin';index" json:"role"`
	ResetToken       *string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time  `json:"-"`
	ApprovalCode     *string     `gorm:"size:64" json:"-"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminResponse DTO
type AdminResponse struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// Identity returns the authenticated view of the admin
func (a *Admin) Identity() domain.Identity {
	return domain.Identity{ID: a.ID, Username: a.Username, Role: a.Role}
}

// ============================================================
// Public intake
// ============================================================

// Subscriber represents subscribers table (newsletter audience)
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}

// Volunteer represents volunteers table
type Volunteer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Interest  string    `gorm:"size:100" json:"interest"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}

// ContactMessage represents contact_messages table
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Subject   string    `gorm:"size:200" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// Donation represents donations table. One row per paid checkout session.
type Donation struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	SessionID     string            `gorm:"uniqueIndex;size:255;not null" json:"session_id"`
	Name          string            `gorm:"size:100" json:"name"`
	Email         string            `gorm:"size:100" json:"email"`
	Amount        float64           `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string            `gorm:"size:10;not null" json:"currency"`
	PaymentStatus string            `gorm:"size:30;not null" json:"payment_status"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Donation) TableName() string {
	return "donations"
}

// ============================================================
// Events
// ============================================================

// Event represents events table
type Event struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"size:200;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Location    string            `gorm:"size:200" json:"location"`
	StartsAt    time.Time         `gorm:"not null;index" json:"starts_at"`
	CreatedBy   string            `gorm:"size:50" json:"created_by"`
	Registrants []EventRegistrant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"registrants,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}

// EventRegistrant represents event_registrants table.
// (event_id, email) is unique: a second registration by the same email is rejected.
type EventRegistrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_registrant_email" json:"event_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex:idx_event_registrant_email" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EventRegistrant) TableName() string {
	return "event_registrants"
}

// EventSummary is the public listing row
type EventSummary struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	RegistrantCount int       `json:"registrant_count"`
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Subscriber{},
		&Volunteer{},
		&ContactMessage{},
		&Donation{},
		&Event{},
		&EventRegistrant{},
	)
}
