package middleware

import (
	"ncp-tracker-backend/lib/rbac"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// PermissionRequired rejects the whole route group before the body is parsed.
func PermissionRequired(action models.NcpAction) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role := GetUserRole(ctx)
		if role == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(models.ErrUnauthorized.Error()))
		}
		if !rbac.Instance.IsAllowed(role, action) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(models.ErrForbidden.Error()))
		}
		return ctx.Next()
	}
}
