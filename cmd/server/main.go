package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nonprofit-api/internal/adapters/cache"
	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/adapters/http/routes"
	"nonprofit-api/internal/adapters/mail"
	"nonprofit-api/internal/adapters/payment"
	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/config"
	"nonprofit-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "nonprofit-api/docs" // Swagger docs
)

// @title Nonprofit API
// @version 1.0
// @description Admin authentication, public intake, newsletter broadcast and donation checkout.

// @contact.name API Support
// @contact.email support@example.org

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not built yet
		panic(err)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to auto migrate", zap.Error(err))
	}
	log.Info("database migration completed")

	adminRepo := repositories.NewAdminRepository(db)
	if err := config.NewSeeder(adminRepo, cfg.SuperAdmin, log).Run(context.Background()); err != nil {
		log.Warn("super admin seed failed", zap.Error(err))
	}

	cronService := services.NewCronService(adminRepo, cfg.Security.TokenSweepSpec, log.Named("cron"))
	if err := cronService.Start(); err != nil {
		log.Fatal("failed to start cron", zap.Error(err))
	}
	defer cronService.Stop()

	var eventCache services.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), "nonprofit:")
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Warn("redis unreachable, event cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			redisCache.Close()
		} else {
			eventCache = redisCache
			defer redisCache.Close()
		}
	}

	if cfg.Payment.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, checkout endpoints will fail")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.OrgName + " API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, routes.Deps{
		DB:      db,
		Config:  cfg,
		Logger:  log,
		Mailer:  mail.NewSMTPMailer(mail.Config(cfg.Mail)),
		Gateway: payment.NewStripeGateway(cfg.Payment.SecretKey),
		Cache:   eventCache,
	})

	go gracefulShutdown(app, log)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}
