package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}

		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics" || path == "/v1/infos":
			ttl = "no-cache"

		case path == "/graphql":
			ttl = "private, max-age=0"

		// Thumbnails and masks are written once per filename.
		case strings.HasSuffix(path, "/thumbnail"),
			strings.HasPrefix(path, "/v1/results/") && strings.HasSuffix(path, "/content"):
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/v1/analysis"):
			ttl = "no-cache" // progress changes while a job runs

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=0, must-revalidate" // revalidated through the ETag
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
