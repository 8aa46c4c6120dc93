package middleware

import (
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// UserContextKey is where the authenticated user is stored on the request.
const UserContextKey = "current_user"

// AuthenticatedSession resolves the session cookie to a user and stores the
// user on the request. Requests without a valid session get a 401.
func AuthenticatedSession(store *session.Store, repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "session error",
			})
		}

		rawID, ok := sess.Get("user_id").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		userID, err := uuid.Parse(rawID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		user, err := repo.GetUserByID(c.Context(), userID)
		if err != nil {
			// The account may have been deleted since the session was issued.
			_ = sess.Destroy()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		c.Locals(UserContextKey, user)
		return c.Next()
	}
}

// RequireAction rejects the request with a 403 unless the authenticated
// user may perform the action. Must run after AuthenticatedSession.
func RequireAction(authz *service.AuthorizationService, action service.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(UserContextKey).(model.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		if !authz.Can(c.Context(), user, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permissions",
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the user placed on the request by AuthenticatedSession.
func CurrentUser(c *fiber.Ctx) (model.User, bool) {
	user, ok := c.Locals(UserContextKey).(model.User)
	return user, ok
}
