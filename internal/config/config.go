package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	OrgName    string
	Database   DatabaseConfig
	JWT        JWTConfig
	Mail       MailConfig
	Payment    PaymentConfig
	Redis      RedisConfig
	Security   SecurityConfig
	SuperAdmin SuperAdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds admin session token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// MailConfig holds SMTP configuration
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// PaymentConfig holds payment processor configuration
type PaymentConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// RedisConfig holds cache configuration. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	EventTTL time.Duration
}

// SecurityConfig holds one-time code settings
type SecurityConfig struct {
	ResetCodeTTL   time.Duration
	TokenSweepSpec string
}

// SuperAdminConfig holds the bootstrap super admin credentials
type SuperAdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production reads the process environment
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	return &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		OrgName:    getEnv("ORG_NAME", "Our Nonprofit"),
		Database:   db,
		JWT:        loadJWTConfig(appMode),
		Mail:       loadMailConfig(),
		Payment:    loadPaymentConfig(),
		Redis:      loadRedisConfig(),
		Security:   loadSecurityConfig(),
		SuperAdmin: loadSuperAdminConfig(),
	}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv(prefix+"DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid %sDB_DRIVER: '%s' (must be 'mysql' or 'postgres')", prefix, driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "nonprofit"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: getEnvInt("ACCESS_TOKEN_MINUTES", 60),
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Host:     getEnv("SMTP_HOST", "localhost"),
		Port:     getEnvInt("SMTP_PORT", 587),
		User:     getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASS", ""),
		From:     getEnv("MAIL_FROM", "no-reply@example.org"),
		FromName: getEnv("MAIL_FROM_NAME", getEnv("ORG_NAME", "Our Nonprofit")),
	}
}

func loadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		Currency:   strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		SuccessURL: getEnv("PAYMENT_SUCCESS_URL", "http://localhost:5173/donate/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  getEnv("PAYMENT_CANCEL_URL", "http://localhost:5173/donate"),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		EventTTL: getEnvDuration("EVENTS_CACHE_TTL", 5*time.Minute),
	}
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		ResetCodeTTL:   getEnvDuration("RESET_CODE_TTL", 15*time.Minute),
		TokenSweepSpec: getEnv("TOKEN_SWEEP_CRON", "@every 15m"),
	}
}

func loadSuperAdminConfig() SuperAdminConfig {
	return SuperAdminConfig{
		Username: getEnv("SUPERADMIN_USERNAME", ""),
		Email:    getEnv("SUPERADMIN_EMAIL", ""),
		Password: getEnv("SUPERADMIN_PASSWORD", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// production must list its origins explicitly
		return ""
	}
	return origins
}
