package handlers

import (
	"context"
	"time"

	"nonprofit-api/internal/config"
	"nonprofit-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db      *gorm.DB
	cache   services.Cache
	appMode string
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db *gorm.DB, cache services.Cache, appMode string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, appMode: appMode}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "running",
		"mode":   h.appMode,
		"docs":   "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and cache health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status, overall := fiber.StatusOK, "ok"

	dbStatus := "healthy"
	if err := config.PingDatabase(h.db); err != nil {
		dbStatus = "unhealthy"
		status, overall = fiber.StatusServiceUnavailable, "degraded"
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		cacheStatus = "healthy"
		// a cache outage degrades listing speed only
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	})
}
