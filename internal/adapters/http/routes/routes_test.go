package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/config"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sixDigits = regexp.MustCompile(`<h2>([0-9]{6})</h2>`)

type captureMailer struct {
	mu   sync.Mutex
	sent []domain.Email
}

func (m *captureMailer) Send(_ context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *captureMailer) last() domain.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	match := sixDigits.FindStringSubmatch(m.last().HTML)
	require.Len(t, match, 2)
	return match[1]
}

type fakeGateway struct {
	sessions map[string]*domain.CheckoutSession
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	s := &domain.CheckoutSession{
		ID:          "cs_test_new",
		URL:         "https://pay.example/cs_test_new",
		AmountTotal: req.AmountCents,
		Currency:    req.Currency,
		Metadata:    req.Metadata,
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *fakeGateway) GetCheckoutSession(_ context.Context, id string) (*domain.CheckoutSession, error) {
	s, ok := g.sessions[id]
	if !ok {
		return nil, assert.AnError
	}
	return s, nil
}

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	mailer  *captureMailer
	gateway *fakeGateway
}

func newTestServer(t *testing.T) *testServer {
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

	cfg := &config.Config{
		AppMode: "dev",
		OrgName: "Helping Hands",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 15},
		Payment: config.PaymentConfig{Currency: "usd", SuccessURL: "https://example.org/ok", CancelURL: "https://example.org/no"},
		Redis:   config.RedisConfig{EventTTL: time.Minute},
		Security: config.SecurityConfig{
			ResetCodeTTL: 15 * time.Minute,
		},
	}

	srv := &testServer{
		app:     fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler}),
		db:      db,
		mailer:  &captureMailer{},
		gateway: &fakeGateway{sessions: make(map[string]*domain.CheckoutSession)},
	}
	Setup(srv.app, Deps{
		DB:      db,
		Config:  cfg,
		Logger:  zap.NewNop(),
		Mailer:  srv.mailer,
		Gateway: srv.gateway,
	})

	srv.seedAdmin(t, "root", domain.RoleSuperAdmin, "root-pass-1")
	srv.seedAdmin(t, "alice", domain.RoleAdmin, "alice-pass-1")
	return srv
}

func (s *testServer) seedAdmin(t *testing.T, username string, role domain.Role, plain string) *models.Admin {
	t.Helper()
	hashed, err := password.HashWithCost(plain, 4)
	require.NoError(t, err)
	admin := &models.Admin{Username: username, Email: username + "@example.org", Password: hashed, Role: role}
	require.NoError(t, s.db.Create(admin).Error)
	return admin
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, username, pass string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"username": username, "password": pass})
	require.Equal(t, http.StatusOK, status, env.Error)

	var data struct {
		Username    string `json:"username"`
		Role        string `json:"role"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, username, data.Username)
	return data.AccessToken
}

func TestLoginAndMe(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"username": "root", "password": "root-pass-1"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"role":"superadmin"`)

	status, env = srv.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"username": "root", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	token := srv.login(t, "alice", "alice-pass-1")
	status, env = srv.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	status, _ = srv.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, http.MethodPost, "/auth/forgot-password", "", fiber.Map{"identifier": "ghost"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(t, http.MethodPost, "/auth/forgot-password", "", fiber.Map{"identifier": "root@example.org"})
	require.Equal(t, http.StatusOK, status)
	code := srv.mailer.lastCode(t)

	status, _ = srv.do(t, http.MethodPost, "/auth/reset-password", "", fiber.Map{"code": code, "new_password": "NewPass1"})
	require.Equal(t, http.StatusOK, status)

	status, env := srv.do(t, http.MethodPost, "/auth/reset-password", "", fiber.Map{"code": code, "new_password": "NewPass2"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidOrExpiredCode.Error(), env.Error)

	status, _ = srv.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"username": "root", "password": "root-pass-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	srv.login(t, "root", "NewPass1")
}

func TestAdminManagementOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	rootToken := srv.login(t, "root", "root-pass-1")
	aliceToken := srv.login(t, "alice", "alice-pass-1")

	status, _ := srv.do(t, http.MethodPost, "/admin/add-user", "", fiber.Map{"username": "bob"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// role is checked before the (invalid) body
	status, env := srv.do(t, http.MethodPost, "/admin/add-user", aliceToken, fiber.Map{"username": ""})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.ErrAccessDenied.Error(), env.Error)

	status, env = srv.do(t, http.MethodPost, "/admin/add-user", rootToken, fiber.Map{
		"username": "bob", "email": "bob@example.org", "password": "bob-pass-1",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Contains(t, string(env.Data), `"role":"admin"`)

	status, _ = srv.do(t, http.MethodPost, "/admin/add-user", rootToken, fiber.Map{
		"username": "bob", "email": "other@example.org", "password": "bob-pass-1",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	var root models.Admin
	require.NoError(t, srv.db.Where("username = ?", "root").First(&root).Error)

	status, env = srv.do(t, http.MethodPost, "/admin/delete-user", rootToken, fiber.Map{"id": root.ID})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.ErrCannotDeleteSelf.Error(), env.Error)

	status, _ = srv.do(t, http.MethodPost, "/admin/delete-user", rootToken, fiber.Map{"id": 9999})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = srv.do(t, http.MethodGet, "/admin/users", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = srv.do(t, http.MethodPost, "/admin/data", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, string(env.Data), "approval_code")
	assert.Contains(t, string(env.Data), `"username":"bob"`)
}

func TestDeletedAdminTokenIsRejected(t *testing.T) {
	srv := newTestServer(t)
	rootToken := srv.login(t, "root", "root-pass-1")
	aliceToken := srv.login(t, "alice", "alice-pass-1")

	var alice models.Admin
	require.NoError(t, srv.db.Where("username = ?", "alice").First(&alice).Error)

	status, _ := srv.do(t, http.MethodPost, "/admin/delete-user", rootToken, fiber.Map{"id": alice.ID})
	require.Equal(t, http.StatusOK, status)

	sentBefore := len(srv.mailer.sent)
	for _, path := range []string{"/admin/data", "/admin/request-broadcast-otp", "/admin/add-event", "/send-newsletter"} {
		status, _ = srv.do(t, http.MethodPost, path, aliceToken, fiber.Map{"subject": "s", "title": "t"})
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
	assert.Len(t, srv.mailer.sent, sentBefore)

	// a new account reusing the name does not inherit the old token
	srv.seedAdmin(t, "carol", domain.RoleAdmin, "carol-pass-1")
	srv.seedAdmin(t, "alice", domain.RoleAdmin, "alice-pass-2")
	status, _ = srv.do(t, http.MethodPost, "/admin/data", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = srv.do(t, http.MethodPost, "/admin/data", rootToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDemotedRoleComesFromStore(t *testing.T) {
	srv := newTestServer(t)
	rootToken := srv.login(t, "root", "root-pass-1")

	status, _ := srv.do(t, http.MethodGet, "/admin/users", rootToken, nil)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, srv.db.Model(&models.Admin{}).Where("username = ?", "root").Update("role", domain.RoleAdmin).Error)

	status, _ = srv.do(t, http.MethodGet, "/admin/users", rootToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestBroadcastOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	rootToken := srv.login(t, "root", "root-pass-1")
	aliceToken := srv.login(t, "alice", "alice-pass-1")

	for _, email := range []string{"a@example.org", "b@example.org"} {
		status, _ := srv.do(t, http.MethodPost, "/subscribe", "", fiber.Map{"email": email})
		require.Equal(t, http.StatusCreated, status)
	}

	newsletter := fiber.Map{"subject": "Spring", "message": "<p>Hello</p>"}

	status, env := srv.do(t, http.MethodPost, "/send-newsletter", aliceToken, newsletter)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrInvalidOtp.Error(), env.Error)

	status, _ = srv.do(t, http.MethodPost, "/admin/request-broadcast-otp", aliceToken, fiber.Map{"subject": "Spring"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"root@example.org"}, srv.mailer.last().To)
	code := srv.mailer.lastCode(t)

	withCode := fiber.Map{"subject": "Spring", "message": "<p>Hello</p>", "otp": code}
	status, env = srv.do(t, http.MethodPost, "/send-newsletter", aliceToken, withCode)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.JSONEq(t, `{"count":2}`, string(env.Data))
	assert.Len(t, srv.mailer.last().Bcc, 2)

	status, _ = srv.do(t, http.MethodPost, "/send-newsletter", aliceToken, withCode)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = srv.do(t, http.MethodPost, "/send-newsletter", rootToken, newsletter)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":2}`, string(env.Data))
}

func TestPublicIntakeOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, http.MethodPost, "/subscribe", "", fiber.Map{"email": "fan@example.org"})
	assert.Equal(t, http.StatusCreated, status)
	status, env := srv.do(t, http.MethodPost, "/subscribe", "", fiber.Map{"email": "fan@example.org"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrAlreadySubscribed.Error(), env.Error)

	var count int64
	require.NoError(t, srv.db.Model(&models.Subscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	status, _ = srv.do(t, http.MethodPost, "/apply-volunteer", "", fiber.Map{"name": "Vee", "email": "vee@example.org"})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = srv.do(t, http.MethodPost, "/contact-us", "", fiber.Map{"name": "Cee", "email": "cee@example.org"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(t, http.MethodPost, "/subscribe", "", "not json")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEventsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "alice", "alice-pass-1")

	status, env := srv.do(t, http.MethodPost, "/admin/add-event", token, fiber.Map{
		"title":     "Food drive",
		"location":  "Hall",
		"starts_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var event struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &event))

	reg := fiber.Map{"event_id": event.ID, "name": "Pat", "email": "pat@example.org"}
	status, _ = srv.do(t, http.MethodPost, "/events/register", "", reg)
	require.Equal(t, http.StatusCreated, status)
	status, env = srv.do(t, http.MethodPost, "/events/register", "", reg)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrAlreadyRegistered.Error(), env.Error)

	status, _ = srv.do(t, http.MethodPost, "/events/register", "", fiber.Map{"event_id": 777, "name": "Pat", "email": "pat@example.org"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = srv.do(t, http.MethodGet, "/events?page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"registrant_count":1`)

	status, _ = srv.do(t, http.MethodPost, "/admin/delete-event", token, fiber.Map{"id": event.ID})
	assert.Equal(t, http.StatusOK, status)
	status, _ = srv.do(t, http.MethodPost, "/admin/delete-event", token, fiber.Map{"id": event.ID})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPaymentsOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodPost, "/create-checkout-session", "", fiber.Map{"amount": 25, "email": "d@example.org", "name": "Dee"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), "cs_test_new")

	status, _ = srv.do(t, http.MethodPost, "/verify-payment", "", fiber.Map{"session_id": "cs_test_new"})
	assert.Equal(t, http.StatusBadRequest, status)

	srv.gateway.sessions["cs_test_new"].PaymentStatus = domain.PaymentStatusPaid
	status, env = srv.do(t, http.MethodPost, "/verify-payment", "", fiber.Map{"session_id": "cs_test_new"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), `"name":"Dee"`)

	status, env = srv.do(t, http.MethodPost, "/verify-payment", "", fiber.Map{"session_id": "cs_missing"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, strings.Contains(env.Error, assert.AnError.Error()))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, _ := srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
