package handlers

import (
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler handles donation checkout endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	log            *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		log:            log,
	}
}

// VerifyPaymentRequest represents a verify payment body
type VerifyPaymentRequest struct {
	SessionID string `json:"session_id"`
}

// CreateCheckoutSession opens a hosted checkout
// @Summary Create checkout session
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body services.CheckoutInput true "Donation"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req services.CheckoutInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.CreateCheckoutSession(c.Context(), &req)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create checkout session")
	}

	return response.Success(c, "", result)
}

// VerifyPayment confirms a checkout was paid
// @Summary Verify payment
// @Description Check a checkout session with the payment processor and record the donation once paid
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body VerifyPaymentRequest true "Session id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.VerifyPayment(c.Context(), req.SessionID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to verify payment")
	}

	return response.Success(c, "Payment verified", result)
}
