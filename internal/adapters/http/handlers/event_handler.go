package handlers

import (
	"time"

	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/pagination"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *services.EventService
	log          *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		log:          log,
	}
}

// AddEventRequest represents a new event body
type AddEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

// DeleteEventRequest represents a delete event body
type DeleteEventRequest struct {
	ID uint `json:"id"`
}

// RegisterRequest represents an event registration body
type RegisterRequest struct {
	EventID uint   `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// AddEvent creates an event
// @Summary Add event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddEventRequest true "Event"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/add-event [post]
func (h *EventHandler) AddEvent(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AddEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.Context(), me.Username, &services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to create event")
	}

	return response.Created(c, "Event created", event)
}

// DeleteEvent removes an event
// @Summary Delete event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteEventRequest true "Event id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/delete-event [post]
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req DeleteEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ID == 0 {
		return response.BadRequest(c, "Event id is required")
	}

	if err := h.eventService.DeleteEvent(c.Context(), me.Username, req.ID); err != nil {
		return respondError(c, h.log, err, "Failed to delete event")
	}

	return response.Success(c, "Event deleted", nil)
}

// List returns events, soonest first
// @Summary List events
// @Tags Events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	page, err := h.eventService.ListEvents(c.Context(), pagination.GetParams(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to list events")
	}
	return response.Success(c, "", page)
}

// Register signs someone up for an event, once per email
// @Summary Register for event
// @Tags Events
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events/register [post]
func (h *EventHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	registrant, err := h.eventService.Register(c.Context(), &services.RegisterInput{
		EventID: req.EventID,
		Name:    req.Name,
		Email:   req.Email,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to register")
	}

	return response.Created(c, "Registered, your ticket is on its way", registrant)
}
