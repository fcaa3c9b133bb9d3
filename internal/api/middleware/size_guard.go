package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/frbox-labs/frbox/internal/domain"
)

// SizeGuard rejects requests whose declared Content-Length exceeds maxBytes,
// before any body processing. The actual body is never inspected here.
func SizeGuard(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if length := c.Request().Header.ContentLength(); length > maxBytes {
			return domain.ErrPayloadTooLarge.WithDetailf("Maximum size is %d bytes", maxBytes)
		}
		return c.Next()
	}
}
