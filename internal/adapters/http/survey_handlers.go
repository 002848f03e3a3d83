package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// ---- Waypoints ----

// ListWaypointsHandler lists waypoints, optionally filtered by flightplan_id.
func ListWaypointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fpID, ok := queryID(c, "flightplan_id")
		if !ok {
			return errBadRequest(c, "invalid flightplan_id")
		}
		wps, err := deps.Waypoints.List(c.UserContext(), fpID)
		if err != nil {
			return writeError(c, err)
		}
		return paginate(c, wps, 100, 500)
	}
}

func GetWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid waypoint id")
		}
		wp, err := deps.Waypoints.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(wp)
	}
}

// CreateWaypointHandler adds a waypoint to an existing plan.
func CreateWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var wp domain.Waypoint
		if err := c.BodyParser(&wp); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if wp.FlightPlanID <= 0 {
			return errBadRequest(c, "flightplan_id is required")
		}
		wp.ID = 0
		if err := deps.Waypoints.Create(c.UserContext(), &wp); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wp)
	}
}

// UpdateWaypointHandler replaces a waypoint's number and pose.
func UpdateWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid waypoint id")
		}
		var wp domain.Waypoint
		if err := c.BodyParser(&wp); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		wp.ID = id
		if err := deps.Waypoints.Update(c.UserContext(), &wp); err != nil {
			return writeError(c, err)
		}
		return c.JSON(wp)
	}
}

func DeleteWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid waypoint id")
		}
		if err := deps.Waypoints.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---- Recons ----

type createReconRequest struct {
	FlightPlanID int64 `json:"flightplan_id"`
}

// ListReconsHandler lists recons, optionally filtered by flightplan_id.
func ListReconsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fpID, ok := queryID(c, "flightplan_id")
		if !ok {
			return errBadRequest(c, "invalid flightplan_id")
		}
		recons, err := deps.Recons.List(c.UserContext(), fpID)
		if err != nil {
			return writeError(c, err)
		}
		return paginate(c, recons, 100, 500)
	}
}

func GetReconHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid recon id")
		}
		rc, err := deps.Recons.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(rc)
	}
}

// CreateReconHandler opens a new recon of a flight plan.
func CreateReconHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createReconRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.FlightPlanID <= 0 {
			return errBadRequest(c, "flightplan_id is required")
		}
		rc, err := deps.Recons.Create(c.UserContext(), req.FlightPlanID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rc)
	}
}

// DeleteReconHandler removes a recon with its resources and their content.
func DeleteReconHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid recon id")
		}
		if err := deps.Recons.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
