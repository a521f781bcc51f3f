package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nonprofit-api/internal/core/domain"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("payment processor not configured")

// sessionAPI is the part of the Stripe client the gateway uses
type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeGateway opens and reads hosted Checkout sessions
type StripeGateway struct {
	sessions sessionAPI
}

// NewStripeGateway creates a gateway for the given secret key. An empty key
// yields a gateway that fails every call with ErrNotConfigured.
func NewStripeGateway(secretKey string) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{}
	}
	sc := client.New(secretKey, nil)
	return &StripeGateway{sessions: sc.CheckoutSessions}
}

// CreateCheckoutSession opens a one-off payment checkout
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if g.sessions == nil {
		return nil, ErrNotConfigured
	}

	s, err := g.sessions.New(buildSessionParams(ctx, req))
	if err != nil {
		return nil, fmt.Errorf("stripe create session: %w", err)
	}
	return toDomainSession(s), nil
}

// GetCheckoutSession reads a checkout by id
func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	if g.sessions == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get session: %w", err)
	}
	return toDomainSession(s), nil
}

func buildSessionParams(ctx context.Context, req domain.CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for k, v := range req.Metadata {
		if v != "" {
			params.AddMetadata(k, v)
		}
	}
	params.Context = ctx
	return params
}

func toDomainSession(s *stripe.CheckoutSession) *domain.CheckoutSession {
	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}
	return &domain.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: email,
		Metadata:      s.Metadata,
		CreatedAt:     time.Unix(s.Created, 0).UTC(),
	}
}
