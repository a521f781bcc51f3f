package config

import (
	"context"
	"testing"
	"time"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.Security.ResetCodeTTL)
	assert.Equal(t, "@every 15m", cfg.Security.TokenSweepSpec)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestFromEnvProdPostgres(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("EVENTS_CACHE_TTL", "90s")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, 90*time.Second, cfg.Redis.EventTTL)
	assert.Equal(t, 2525, cfg.Mail.Port)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_DB_DRIVER", "oracle")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}

	assert.Equal(t, "u:p@tcp(h:1)/n?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(d))
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable TimeZone=UTC", buildPostgresDSN(d))

	_, err := dialectorFor(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func newSeederRepo(t *testing.T) repositories.AdminRepository {
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
	return repositories.NewAdminRepository(db)
}

func TestSeedSuperAdminOnce(t *testing.T) {
	repo := newSeederRepo(t)
	ctx := context.Background()
	seeder := NewSeeder(repo, SuperAdminConfig{
		Username: "root",
		Email:    "Root@Example.org",
		Password: "correct-horse",
	}, zap.NewNop())

	admin, err := seeder.SeedSuperAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, admin.Role)
	assert.Equal(t, "root@example.org", admin.Email)
	assert.True(t, password.Verify("correct-horse", admin.Password))

	_, err = seeder.SeedSuperAdmin(ctx)
	assert.ErrorIs(t, err, domain.ErrSuperAdminExists)

	// Run tolerates an existing super admin
	assert.NoError(t, seeder.Run(ctx))

	n, err := repo.CountByRole(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSeedSuperAdminValidation(t *testing.T) {
	repo := newSeederRepo(t)
	ctx := context.Background()

	_, err := NewSeeder(repo, SuperAdminConfig{Username: "root", Email: "root@example.org", Password: "short"}, zap.NewNop()).
		SeedSuperAdmin(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// no credentials configured: Run skips
	assert.NoError(t, NewSeeder(repo, SuperAdminConfig{}, zap.NewNop()).Run(ctx))
}
