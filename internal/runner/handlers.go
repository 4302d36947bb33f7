package runner

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		feed, err := svc.ActiveRunners(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to load active runners",
				"details": err.Error(),
			})
		}
		return c.JSON(feed)
	})
}
