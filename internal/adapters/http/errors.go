package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// writeError maps service errors onto the API error envelope.
func writeError(c *fiber.Ctx, err error) error {
	var verr *flightpath.ValidationError
	switch {
	case errors.As(err, &verr):
		reqID, _ := c.Locals("requestid").(string)
		return c.Status(400).JSON(APIError{
			Status:    400,
			Code:      "bad_request",
			Message:   verr.Error(),
			Field:     verr.Field,
			RequestID: reqID,
		})
	case errors.Is(err, flightpath.ErrDegenerateInput),
		errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNoContent):
		return newError(c, 404, "no_content", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return errConflict(c, err.Error())
	default:
		logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
