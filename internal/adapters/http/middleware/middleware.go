package middleware

import (
	"errors"
	"time"

	"nonprofit-api/internal/config"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	// X-Request-ID is reused when sent; stored under the "requestid" local
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	app.Use(rateLimiter(100, "api", "Too many requests"))

	format := "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}"
	if cfg.IsProd() {
		format += " | ${error}"
	}
	app.Use(logger.New(logger.Config{
		Format:     format + "\n",
		TimeFormat: time.RFC3339,
	}))

	// An empty list falls back to a wildcard, which cannot carry credentials.
	origins := cfg.GetAllowedOrigins()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: origins != "*" && origins != "",
	}))
}

// AuthRateLimiter limits credential endpoints: 5 requests per minute per IP
func AuthRateLimiter() fiber.Handler {
	return rateLimiter(5, "auth", "Too many login attempts, wait a minute")
}

// StrictRateLimiter limits one-time code issuance: 3 requests per minute per IP
func StrictRateLimiter() fiber.Handler {
	return rateLimiter(3, "strict", "Rate limit exceeded")
}

func rateLimiter(max int, scope, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return scope + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// CustomErrorHandler answers errors that escape handlers with the JSON envelope
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, message)
}
