package controllers

import (
	"ncp-tracker-backend/middleware"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Warn("failed to parse request")
		return errors.New("Failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (uint, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(key), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("Invalid %s", key)
	}
	return uint(id), nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.WithField("request_id", ctx.Locals(requestid.ConfigDefault.ContextKey))
	if username := middleware.GetUsername(ctx); username != "" {
		logger = logger.WithField("user", username)
	}
	return logger
}

// SendError maps a handler error to its HTTP status. Unexpected errors are logged and answered with hMsg.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	switch {
	case models.IsValidationError(err):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	case errors.Is(err, models.ErrUnauthorized):
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(models.ErrUnauthorized.Error()))
	case errors.Is(err, models.ErrForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(models.ErrForbidden.Error()))
	case errors.Is(err, models.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(strings.TrimSpace(wrapMessage(err, models.ErrNotFound) + " not found")))
	case errors.Is(err, models.ErrConflict):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(wrapMessage(err, models.ErrConflict)))
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}

// wrapMessage returns the wrap text without the sentinel: "NCP report 7: not found" -> "NCP report 7".
func wrapMessage(err, sentinel error) string {
	if err == sentinel {
		return ""
	}
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}
