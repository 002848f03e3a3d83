package http

import (
	"github.com/gofiber/fiber/v2"
)

type createAnalysisRequest struct {
	MinuendReconID    int64 `json:"minuend_recon_id"`
	SubtrahendReconID int64 `json:"subtrahend_recon_id"`
}

// ListAnalysesHandler returns all analyses without their results.
func ListAnalysesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		analyses, err := deps.Analyses.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return paginate(c, analyses, 100, 500)
	}
}

// GetAnalysisHandler returns an analysis with its per-pair results.
func GetAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid analysis id")
		}
		a, err := deps.Analyses.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(a)
	}
}

// CreateAnalysisHandler queues the comparison of two recons. Progress is
// pushed on the /ws relay.
func CreateAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createAnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.MinuendReconID <= 0 || req.SubtrahendReconID <= 0 {
			return errBadRequest(c, "minuend_recon_id and subtrahend_recon_id are required")
		}
		a, err := deps.Analyses.Create(c.UserContext(), req.MinuendReconID, req.SubtrahendReconID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

func DeleteAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid analysis id")
		}
		if err := deps.Analyses.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func GetResultHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid result id")
		}
		r, err := deps.Analyses.GetResult(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(r)
	}
}

// GetResultContentHandler streams the change mask of a pair result.
func GetResultContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid result id")
		}
		rc, name, err := deps.Analyses.OpenResultContent(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, rc, name)
	}
}
