package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive int64 route parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive int64 query filter.
// A present but malformed value is reported through ok=false.
func queryID(c *fiber.Ctx, name string) (id *int64, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, false
	}
	return &v, true
}

// AppInfoHandler returns the last time any survey data changed.
func AppInfoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := deps.Infos.Get(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(info)
	}
}
