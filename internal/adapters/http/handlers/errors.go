package handlers

import (
	"errors"

	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Domain errors answered with their own text, grouped by status
var (
	badRequestErrors = []error{
		domain.ErrInvalidInput,
		domain.ErrAccountNotFound,
		domain.ErrInvalidOrExpiredCode,
		domain.ErrUserExists,
		domain.ErrInvalidOtp,
		domain.ErrAlreadySubscribed,
		domain.ErrAlreadyRegistered,
		domain.ErrPaymentNotCompleted,
		domain.ErrInvalidAmount,
		domain.ErrUnknownRole,
		domain.ErrSuperAdminNotFound,
	}
	forbiddenErrors = []error{
		domain.ErrAccessDenied,
		domain.ErrCannotDeleteSelf,
	}
	notFoundErrors = []error{
		domain.ErrNotFound,
		domain.ErrAdminNotFound,
	}
)

// respondError maps a service error onto its status class. Anything
// unrecognised is logged and answered with the generic fallback.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return response.BadRequest(c, "Invalid username or password")
	}
	if matches(err, badRequestErrors) {
		return response.BadRequest(c, err.Error())
	}
	if matches(err, forbiddenErrors) {
		return response.Forbidden(c, err.Error())
	}
	if matches(err, notFoundErrors) {
		return response.NotFound(c, err.Error())
	}

	log.Error(fallback,
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("request_id", c.Locals("requestid")),
		zap.Error(err),
	)
	return response.InternalServerError(c, fallback)
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
