package handlers

import (
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IntakeHandler handles the public forms
type IntakeHandler struct {
	intakeService *services.IntakeService
	log           *zap.Logger
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService *services.IntakeService, log *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		intakeService: intakeService,
		log:           log,
	}
}

// ApplyVolunteer stores a volunteer application
// @Summary Apply as volunteer
// @Tags Intake
// @Accept json
// @Produce json
// @Param body body services.VolunteerInput true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /apply-volunteer [post]
func (h *IntakeHandler) ApplyVolunteer(c *fiber.Ctx) error {
	var req services.VolunteerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if _, err := h.intakeService.ApplyVolunteer(c.Context(), &req); err != nil {
		return respondError(c, h.log, err, "Failed to submit application")
	}

	return response.Created(c, "Application received", nil)
}

// ContactUs stores a contact message
// @Summary Contact us
// @Tags Intake
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Message"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /contact-us [post]
func (h *IntakeHandler) ContactUs(c *fiber.Ctx) error {
	var req services.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if _, err := h.intakeService.SubmitContact(c.Context(), &req); err != nil {
		return respondError(c, h.log, err, "Failed to send message")
	}

	return response.Created(c, "Message received", nil)
}

// Subscribe adds a newsletter subscriber
// @Summary Subscribe to newsletter
// @Tags Intake
// @Accept json
// @Produce json
// @Param body body services.SubscribeInput true "Email"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /subscribe [post]
func (h *IntakeHandler) Subscribe(c *fiber.Ctx) error {
	var req services.SubscribeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if _, err := h.intakeService.Subscribe(c.Context(), &req); err != nil {
		return respondError(c, h.log, err, "Failed to subscribe")
	}

	return response.Created(c, "Subscribed", nil)
}
