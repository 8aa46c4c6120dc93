package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"fleettrack/internal/model"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not_found", model.NotFoundError{Entity: "device"}, fiber.StatusNotFound},
		{"precondition", model.PreconditionError{Reason: "device is not available"}, fiber.StatusConflict},
		{"conflict", model.ConflictError{Field: "IMEI"}, fiber.StatusConflict},
		{"validation", model.ValidationError{Message: "brand is required"}, fiber.StatusUnprocessableEntity},
		{"invalid_credentials", service.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"too_many_attempts", service.ErrTooManyAttempts, fiber.StatusTooManyRequests},
		{"unknown", errors.New("driver: bad connection"), fiber.StatusInternalServerError},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondError(c, logger, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, logger, errors.New("pq: connection refused at 10.0.0.3"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.3")
	assert.Contains(t, string(body), "internal server error")
}
