package middleware

import (
	"context"
	"errors"
	"strings"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/jwt"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Locals keys set by AuthMiddleware
const (
	LocalAdminID  = "adminID"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AdminLookup loads the admin a token was issued to
type AdminLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
}

// AuthMiddleware requires a valid admin access token whose account still
// exists. Identity and role come from the stored admin, not the claims.
func AuthMiddleware(secret string, admins AdminLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		admin, err := admins.GetByID(c.UserContext(), claims.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "Account no longer exists")
			}
			return response.InternalServerError(c, "Failed to verify access token")
		}
		// ids are never reused but usernames are
		if admin.Username != claims.Username {
			return response.Unauthorized(c, "Account no longer exists")
		}

		role, err := domain.ParseRole(string(admin.Role))
		if err != nil {
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalAdminID, admin.ID)
		c.Locals(LocalUsername, admin.Username)
		c.Locals(LocalRole, role)

		return c.Next()
	}
}

// RoleMiddleware allows only the listed roles
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// SuperAdminOnly allows only the super admin
func SuperAdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin)
}

// CurrentIdentity returns the identity AuthMiddleware stored on the request
func CurrentIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	username, ok := c.Locals(LocalUsername).(string)
	if !ok || username == "" {
		return domain.Identity{}, false
	}
	id, _ := c.Locals(LocalAdminID).(uint)
	role, _ := c.Locals(LocalRole).(domain.Role)
	return domain.Identity{ID: id, Username: username, Role: role}, true
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
