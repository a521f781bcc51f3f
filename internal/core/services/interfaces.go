package services

import (
	"context"
	"time"

	"nonprofit-api/internal/core/domain"
)

// Mailer delivers one email through the notification collaborator
type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}

// PaymentGateway is the hosted checkout collaborator
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
}

// Cache stores JSON-serialisable values under string keys
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

// CodeGenerator produces one-time numeric codes
type CodeGenerator func() (string, error)

// Clock returns the current time
type Clock func() time.Time
