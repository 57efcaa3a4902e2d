package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// usernameKey is filled by the auth middleware so the request line carries the caller.
const usernameKey = "fiberlog_username"

// SetUsername attaches the caller's username to the request log line.
func SetUsername(c *fiber.Ctx, username string) {
	c.Locals(usernameKey, username)
}

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		// per request, handlers run concurrently
		d := &data{pid: pid, start: time.Now()}
		err := c.Next()
		if err != nil {
			// let the app error handler set the status before it is logged
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		d.end = time.Now()
		if c.Method() == fiber.MethodOptions {
			return nil
		}

		entry := log.NewEntry(log.StandardLogger())
		if cfg.Logger != nil {
			entry = log.NewEntry(cfg.Logger)
		}
		entry = entry.WithFields(getLogrusFields(ftm, c, d))
		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error(message)
		case status >= fiber.StatusBadRequest:
			entry.Warn(message)
		default:
			entry.Info(message)
		}
		return nil
	}
}

const message = "api request"
