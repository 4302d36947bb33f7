package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, repo Repository, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		items, err := repo.List(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to load notifications",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"notifications": items})
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Notification
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title required")
		}
		saved, err := repo.Add(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	r.Post("/:id/read", authMiddleware, func(c *fiber.Ctx) error {
		if err := repo.MarkRead(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := repo.Delete(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
