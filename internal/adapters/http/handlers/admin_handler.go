package handlers

import (
	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler handles admin account management endpoints
type AdminHandler struct {
	adminService *services.AdminService
	log          *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		log:          log,
	}
}

// AddUserRequest represents add admin request body
type AddUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeleteUserRequest represents delete admin request body
type DeleteUserRequest struct {
	ID uint `json:"id"`
}

// AddUser creates an admin account
// @Summary Add admin
// @Description Create a new admin account. Super admin only; the new account always has role admin.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddUserRequest true "New admin"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/add-user [post]
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	// the role check comes before the body is looked at
	if _, err := h.adminService.Authorize(c.Context(), me.Username); err != nil {
		return respondError(c, h.log, err, "Failed to create admin")
	}

	var req AddUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	admin, err := h.adminService.AddAdmin(c.Context(), me.Username, &services.AddAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to create admin")
	}

	return response.Created(c, "Admin created", admin)
}

// DeleteUser removes an admin account
// @Summary Delete admin
// @Description Delete another admin account. Super admin only; self-deletion is refused.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteUserRequest true "Admin id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/delete-user [post]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if _, err := h.adminService.Authorize(c.Context(), me.Username); err != nil {
		return respondError(c, h.log, err, "Failed to delete admin")
	}

	var req DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ID == 0 {
		return response.BadRequest(c, "Admin id is required")
	}

	if err := h.adminService.DeleteAdmin(c.Context(), me.Username, req.ID); err != nil {
		return respondError(c, h.log, err, "Failed to delete admin")
	}

	return response.Success(c, "Admin deleted", nil)
}

// ListUsers lists admin accounts
// @Summary List admins
// @Description List every admin account without credentials
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	admins, err := h.adminService.ListAdmins(c.Context())
	if err != nil {
		return respondError(c, h.log, err, "Failed to list admins")
	}
	return response.Success(c, "", admins)
}

// Data returns every collection for the dashboard
// @Summary Dashboard data
// @Description Bulk read of admins, subscribers, volunteers, contact messages, donations and events. Passwords, reset tokens and approval codes are never included.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /admin/data [post]
func (h *AdminHandler) Data(c *fiber.Ctx) error {
	data, err := h.adminService.GetData(c.Context())
	if err != nil {
		return respondError(c, h.log, err, "Failed to load data")
	}
	return response.Success(c, "", data)
}
