package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the session endpoints. The literal /users and
// /detail/... routes must be registered before /:userId so fiber does not
// swallow them as a user id.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/users", func(c *fiber.Ctx) error {
		stats, err := svc.UsersWithStats(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to load user statistics",
				"details": err.Error(),
			})
		}
		if stats == nil {
			stats = []UserStats{}
		}
		return c.JSON(fiber.Map{"users": stats})
	})

	r.Get("/detail/:sessionId", func(c *fiber.Ctx) error {
		detail, err := svc.Detail(c.Context(), c.Params("sessionId"))
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to load session detail",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"session": detail})
	})

	r.Delete("/detail/:sessionId", authMiddleware, func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionId")
		if err := svc.DeleteSession(c.Context(), sessionID); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to delete session",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Session " + sessionID + " and all related data deleted",
		})
	})

	r.Get("/:userId", func(c *fiber.Ctx) error {
		user, sessions, err := svc.UserSessions(c.Context(), c.Params("userId"))
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to load sessions",
				"details": err.Error(),
			})
		}
		if sessions == nil {
			sessions = []ListItem{}
		}
		return c.JSON(fiber.Map{"user": user, "sessions": sessions})
	})
}
