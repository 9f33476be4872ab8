package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID is a Fiber middleware that tags every request with a unique ID
// for log correlation. An incoming X-Request-ID header is preserved so IDs
// survive proxies.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		c.Locals("requestid", id)
		c.Set("X-Request-ID", id)

		return c.Next()
	}
}
