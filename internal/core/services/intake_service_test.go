package services

import (
	"context"
	"testing"

	"nonprofit-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIntakeService(env *testEnv) *IntakeService {
	return NewIntakeService(env.subscribers, env.volunteers, env.contacts, env.notify, zap.NewNop())
}

func TestSubscribeOncePerEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newIntakeService(env)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, &SubscribeInput{Email: "fan@example.org"})
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, &SubscribeInput{Email: " Fan@Example.org "})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	all, err := env.subscribers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Subscribe(ctx, &SubscribeInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyVolunteer(t *testing.T) {
	env := newTestEnv(t)
	svc := newIntakeService(env)
	ctx := context.Background()

	v, err := svc.ApplyVolunteer(ctx, &VolunteerInput{Name: "Vee", Email: "vee@example.org", Interest: "kitchen"})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)

	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"vee@example.org"}, sent[0].To)

	_, err = svc.ApplyVolunteer(ctx, &VolunteerInput{Email: "vee@example.org"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitContact(t *testing.T) {
	env := newTestEnv(t)
	svc := newIntakeService(env)
	ctx := context.Background()

	m, err := svc.SubmitContact(ctx, &ContactInput{Name: "Cee", Email: "cee@example.org", Subject: "Hi", Message: "Hello there"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	_, err = svc.SubmitContact(ctx, &ContactInput{Name: "Cee", Email: "cee@example.org"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	all, err := env.contacts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
