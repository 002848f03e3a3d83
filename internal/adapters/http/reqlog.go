package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
)

// RequestIDLogMiddleware derives a logger tagged with the request ID and
// stores it in the user context. Services and the access log read it back
// through logging.FromContext, so every record of one request correlates.
// The ID is echoed to clients by the requestid middleware.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			rid = c.Get(fiber.HeaderXRequestID)
		}
		if rid == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		l := logging.FromContext(ctx).With("request_id", rid)
		c.SetUserContext(logging.WithLogger(ctx, l))
		return c.Next()
	}
}
