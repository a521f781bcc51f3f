package routes

import (
	"time"

	"nonprofit-api/internal/adapters/http/handlers"
	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/config"
	"nonprofit-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are wired against. Cache may be nil.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Logger  *zap.Logger
	Mailer  services.Mailer
	Gateway services.PaymentGateway
	Cache   services.Cache
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	cfg := deps.Config
	log := deps.Logger

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(deps.DB)
	subscriberRepo := repositories.NewSubscriberRepository(deps.DB)
	volunteerRepo := repositories.NewVolunteerRepository(deps.DB)
	contactRepo := repositories.NewContactRepository(deps.DB)
	donationRepo := repositories.NewDonationRepository(deps.DB)
	eventRepo := repositories.NewEventRepository(deps.DB)

	// Initialize services
	notifyService := services.NewNotificationService(deps.Mailer, cfg.OrgName, log.Named("notify"))
	authService := services.NewAuthService(adminRepo, notifyService, services.AuthConfig{
		JWTSecret:       cfg.JWT.Secret,
		AccessTokenMins: cfg.JWT.AccessTokenMins,
		ResetCodeTTL:    cfg.Security.ResetCodeTTL,
	}, log.Named("auth"))
	adminService := services.NewAdminService(adminRepo, subscriberRepo, volunteerRepo, contactRepo, donationRepo, eventRepo, log.Named("admin"))
	broadcastService := services.NewBroadcastService(adminRepo, subscriberRepo, notifyService, log.Named("broadcast"))
	eventService := services.NewEventService(eventRepo, notifyService, deps.Cache, cfg.Redis.EventTTL, log.Named("events"))
	intakeService := services.NewIntakeService(subscriberRepo, volunteerRepo, contactRepo, notifyService, log.Named("intake"))
	paymentService := services.NewPaymentService(deps.Gateway, donationRepo, notifyService, services.PaymentConfig{
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
	}, log.Named("payment"))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(authService, log)
	adminHandler := handlers.NewAdminHandler(adminService, log)
	broadcastHandler := handlers.NewBroadcastHandler(broadcastService, log)
	eventHandler := handlers.NewEventHandler(eventService, log)
	intakeHandler := handlers.NewIntakeHandler(intakeService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)

	requireAuth := middleware.AuthMiddleware(cfg.JWT.Secret, adminRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/reset-password", middleware.AuthRateLimiter(), authHandler.ResetPassword)
	auth.Get("/me", requireAuth, authHandler.Me)

	// Admin routes (any authenticated admin; role rules live in the services)
	admin := app.Group("/admin", requireAuth, middleware.NoCacheHeaders())
	admin.Post("/add-user", adminHandler.AddUser)
	admin.Post("/delete-user", adminHandler.DeleteUser)
	admin.Get("/users", middleware.SuperAdminOnly(), adminHandler.ListUsers)
	admin.Post("/data", adminHandler.Data)
	admin.Post("/request-broadcast-otp", middleware.StrictRateLimiter(), broadcastHandler.RequestOtp)
	admin.Post("/add-event", eventHandler.AddEvent)
	admin.Post("/delete-event", eventHandler.DeleteEvent)

	app.Post("/send-newsletter", requireAuth, broadcastHandler.SendNewsletter)

	// Public routes
	app.Get("/events", middleware.PublicCache(30*time.Second), eventHandler.List)
	app.Post("/events/register", eventHandler.Register)

	app.Post("/create-checkout-session", paymentHandler.CreateCheckoutSession)
	app.Post("/verify-payment", paymentHandler.VerifyPayment)

	app.Post("/apply-volunteer", intakeHandler.ApplyVolunteer)
	app.Post("/contact-us", intakeHandler.ContactUs)
	app.Post("/subscribe", intakeHandler.Subscribe)
}
