package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in and out.
const RequestIDHeader = "X-Request-ID"

const requestIDLocal = "request_id"

// RequestID returns the request's ID, or "" if the logger did not run.
func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(requestIDLocal).(string)
	return rid
}

// Logger assigns a request ID and logs every request once it completes.
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDLocal, rid)
		c.Set(RequestIDHeader, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		level := zerolog.InfoLevel
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			level = zerolog.ErrorLevel
			if status < fiber.StatusInternalServerError {
				level = zerolog.WarnLevel
			}
		}

		logger.WithLevel(level).
			Err(err).
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.IP()).
			Msg("request")

		return err
	}
}

// PanicHandler logs a recovered panic. Use it as the recover middleware's
// stack trace handler.
func PanicHandler(logger zerolog.Logger) func(c fiber.Ctx, e any) {
	return func(c fiber.Ctx, e any) {
		logger.Error().
			Str("request_id", RequestID(c)).
			Str("panic", fmt.Sprintf("%v", e)).
			Msg("panic recovered")
	}
}
