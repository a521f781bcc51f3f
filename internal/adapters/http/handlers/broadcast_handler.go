package handlers

import (
	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BroadcastHandler handles newsletter endpoints
type BroadcastHandler struct {
	broadcastService *services.BroadcastService
	log              *zap.Logger
}

// NewBroadcastHandler creates a new broadcast handler
func NewBroadcastHandler(broadcastService *services.BroadcastService, log *zap.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		broadcastService: broadcastService,
		log:              log,
	}
}

// BroadcastOtpRequest represents an approval code request body
type BroadcastOtpRequest struct {
	Subject string `json:"subject"`
}

// NewsletterRequest represents a newsletter request body
type NewsletterRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Otp     string `json:"otp"`
}

// RequestOtp asks the super admin for a broadcast approval code
// @Summary Request broadcast approval
// @Description Email a fresh approval code to the super admin, replacing any pending one
// @Tags Broadcast
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BroadcastOtpRequest true "Newsletter subject"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/request-broadcast-otp [post]
func (h *BroadcastHandler) RequestOtp(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req BroadcastOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.broadcastService.RequestBroadcastOtp(c.Context(), me.Username, req.Subject); err != nil {
		return respondError(c, h.log, err, "Failed to request approval")
	}

	return response.Success(c, "Approval code sent to the super admin", nil)
}

// SendNewsletter broadcasts to every subscriber
// @Summary Send newsletter
// @Description Send one BCC email to all subscribers. Admins must supply the approval code; the super admin needs none.
// @Tags Broadcast
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NewsletterRequest true "Newsletter"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /send-newsletter [post]
func (h *BroadcastHandler) SendNewsletter(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req NewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.broadcastService.SendNewsletter(c.Context(), me.Username, &services.NewsletterInput{
		Subject: req.Subject,
		Message: req.Message,
		Otp:     req.Otp,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to send newsletter")
	}

	return response.Success(c, "Newsletter sent", result)
}
