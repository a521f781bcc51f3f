package payment

import (
	"context"
	"testing"

	"nonprofit-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	s, _ := args.Get(0).(*stripe.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockSessions) Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(id, params)
	s, _ := args.Get(0).(*stripe.CheckoutSession)
	return s, args.Error(1)
}

func TestBuildSessionParams(t *testing.T) {
	params := buildSessionParams(context.Background(), domain.CheckoutRequest{
		AmountCents: 2500,
		Currency:    "usd",
		Description: "Donation",
		Email:       "d@example.org",
		SuccessURL:  "https://example.org/ok",
		CancelURL:   "https://example.org/no",
		Metadata:    map[string]string{"name": "Dee", "purpose": ""},
	})

	assert.Equal(t, "payment", *params.Mode)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(2500), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "Donation", *params.LineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, "d@example.org", *params.CustomerEmail)
	assert.Equal(t, map[string]string{"name": "Dee"}, params.Metadata)
}

func TestGetCheckoutSessionMapsFields(t *testing.T) {
	sessions := &mockSessions{}
	sessions.On("Get", "cs_1", mock.Anything).Return(&stripe.CheckoutSession{
		ID:              "cs_1",
		PaymentStatus:   stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:     1000,
		Currency:        stripe.CurrencyUSD,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "d@example.org"},
		Metadata:        map[string]string{"name": "Dee"},
		Created:         1700000000,
	}, nil)

	g := &StripeGateway{sessions: sessions}
	s, err := g.GetCheckoutSession(context.Background(), "cs_1")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusPaid, s.PaymentStatus)
	assert.Equal(t, int64(1000), s.AmountTotal)
	assert.Equal(t, "usd", s.Currency)
	assert.Equal(t, "d@example.org", s.CustomerEmail)
	assert.Equal(t, "Dee", s.Metadata["name"])
}

func TestUnconfiguredGateway(t *testing.T) {
	g := NewStripeGateway("")

	_, err := g.CreateCheckoutSession(context.Background(), domain.CheckoutRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = g.GetCheckoutSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
