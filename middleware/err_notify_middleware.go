package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

// ErrNotify posts every 5xx response to an external webhook, e.g. a chat bot.
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		msg := string(c.Response().Body())
		if unmErr := c.App().Config().JSONDecoder(c.Response().Body(), &data); unmErr == nil && data.Message != "" {
			msg = data.Message
		}
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		payload := fiber.Map{
			"code":       statusCode,
			"method":     c.Method(),
			"path":       path,
			"error":      msg,
			"request_id": c.Locals(requestid.ConfigDefault.ContextKey),
		}

		go func() {
			code, _, errs := fiber.Post(addr).JSON(payload).Bytes()
			if len(errs) != 0 {
				log.WithError(errs[0]).Warn("failed to send error notification")
				return
			}
			if code >= fiber.StatusBadRequest {
				log.WithField("code", code).Warn("error notification rejected")
			}
		}()
		return err
	}
}
