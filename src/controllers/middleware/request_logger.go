package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bagbanter-api/src/infrastructure/log"
)

const HeaderCorrelationID = "X-Correlation-ID"

// RequestLogger tags the request context with a correlation id and writes
// one log line per request once the response status is known.
func RequestLogger(logger log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := c.Get(HeaderCorrelationID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := logger.WithCorrelationID(c.UserContext(), id)
		c.SetUserContext(ctx)
		c.Set(HeaderCorrelationID, id)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.RequestResponse(ctx, &log.Field{
			URL:            c.OriginalURL(),
			HostName:       c.Hostname(),
			HTTPStatusCode: c.Response().StatusCode(),
			Duration:       time.Since(start).Milliseconds(),
			HTTPMethod:     c.Method(),
			Message:        "Request completed",
		})
		return nil
	}
}
