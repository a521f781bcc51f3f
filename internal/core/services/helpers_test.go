package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/password"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockMailer struct {
	mock.Mock
	mu   sync.Mutex
	sent []domain.Email
}

func (m *mockMailer) Send(ctx context.Context, email domain.Email) error {
	args := m.Called(ctx, email)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.sent = append(m.sent, email)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *mockMailer) Sent() []domain.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Email(nil), m.sent...)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*domain.CheckoutSession)
	return session, args.Error(1)
}

func (m *mockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*domain.CheckoutSession)
	return session, args.Error(1)
}

// memCache is a map-backed Cache
type memCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	gets    int
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]interface{})}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	*dest.(*EventPage) = *v.(*EventPage)
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }

type testEnv struct {
	db     *gorm.DB
	mailer *mockMailer
	notify *NotificationService

	admins      repositories.AdminRepository
	subscribers repositories.SubscriberRepository
	volunteers  repositories.VolunteerRepository
	contacts    repositories.ContactRepository
	donations   repositories.DonationRepository
	events      repositories.EventRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &testEnv{
		db:          db,
		mailer:      mailer,
		notify:      NewNotificationService(mailer, "Helping Hands", zap.NewNop()),
		admins:      repositories.NewAdminRepository(db),
		subscribers: repositories.NewSubscriberRepository(db),
		volunteers:  repositories.NewVolunteerRepository(db),
		contacts:    repositories.NewContactRepository(db),
		donations:   repositories.NewDonationRepository(db),
		events:      repositories.NewEventRepository(db),
	}
}

func (e *testEnv) seedAdmin(t *testing.T, username string, role domain.Role, plain string) *models.Admin {
	t.Helper()
	hashed, err := password.HashWithCost(plain, 4)
	require.NoError(t, err)
	admin := &models.Admin{
		Username: username,
		Email:    username + "@example.org",
		Password: hashed,
		Role:     role,
	}
	require.NoError(t, e.admins.Create(context.Background(), admin))
	return admin
}

func (e *testEnv) reloadAdmin(t *testing.T, id uint) *models.Admin {
	t.Helper()
	admin, err := e.admins.GetByID(context.Background(), id)
	require.NoError(t, err)
	return admin
}

func fixedCode(code string) CodeGenerator {
	return func() (string, error) { return code, nil }
}
