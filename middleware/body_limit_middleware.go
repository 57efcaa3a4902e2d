package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit caps JSON bodies below the app-wide limit, upload paths keep the app limit.
func WithBodyLimit(limit int, skipPaths ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, path := range skipPaths {
			if strings.Contains(c.Path(), path) {
				return c.Next()
			}
		}
		if c.Request().Header.ContentLength() > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"status":  "fail",
				"message": fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", limit),
			})
		}
		return c.Next()
	}
}
