package api

import (
	"errors"
	"log/slog"

	"fleettrack/internal/model"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to HTTP status codes. Anything unmapped
// is logged and reported as a 500 without leaking the cause.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	var notFound model.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound.Error(),
		})
	}

	var precondition model.PreconditionError
	if errors.As(err, &precondition) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": precondition.Error(),
		})
	}

	var conflict model.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflict.Error(),
		})
	}

	var validation model.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": validation.Error(),
		})
	}

	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid username or password",
		})
	}

	if errors.Is(err, service.ErrTooManyAttempts) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "too many attempts, try again later",
		})
	}

	logger.Error("unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
