package handlers

import (
	"strings"

	"nonprofit-api/internal/adapters/http/middleware"
	"nonprofit-api/internal/core/services"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Login handles admin login
// @Summary Admin login
// @Description Verify credentials and return the admin's username, role and access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to login")
	}

	return response.Success(c, "Login successful", result)
}

// ForgotPassword handles reset code requests
// @Summary Request password reset
// @Description Email a 6-digit reset code valid for 15 minutes to the admin matching the username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Username or email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	identifier := firstNonEmpty(req.Identifier, req.Username, req.Email)
	if identifier == "" {
		return response.BadRequest(c, "Username or email is required")
	}

	if err := h.authService.RequestPasswordReset(c.Context(), identifier); err != nil {
		return respondError(c, h.log, err, "Failed to send reset code")
	}

	return response.Success(c, "Reset code sent", nil)
}

// ResetPassword handles reset code consumption
// @Summary Reset password
// @Description Consume a reset code and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Code and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.ResetPassword(c.Context(), strings.TrimSpace(req.Code), req.NewPassword); err != nil {
		return respondError(c, h.log, err, "Failed to reset password")
	}

	return response.Success(c, "Password updated", nil)
}

// Me returns the authenticated admin
// @Summary Current admin
// @Description Get the admin behind the access token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	me, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	admin, err := h.authService.Me(c.Context(), me.Username)
	if err != nil {
		return respondError(c, h.log, err, "Failed to load admin")
	}

	return response.Success(c, "", admin)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
