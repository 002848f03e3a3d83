package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
)

// buildRequest is the body of POST /v1/flightplans/build. Builder options
// sit at the top level next to the plan name.
type buildRequest struct {
	Name string `json:"flightplan_name"`
	Save bool   `json:"save"`
	domain.BuilderOptions
}

// ListFlightPlansHandler returns flight plans without their waypoints.
func ListFlightPlansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plans, err := deps.FlightPlans.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return paginate(c, plans, 100, 500)
	}
}

// GetFlightPlanHandler returns a flight plan with its waypoints.
func GetFlightPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid flight plan id")
		}
		fp, err := deps.FlightPlans.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fp)
	}
}

// CreateFlightPlanHandler stores a flight plan with hand-placed waypoints.
func CreateFlightPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateFlightPlanInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		fp, err := deps.FlightPlans.Create(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fp)
	}
}

// UpdateFlightPlanHandler renames a plan and/or rebuilds it from new
// builder options.
func UpdateFlightPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid flight plan id")
		}
		var in usecases.UpdateFlightPlanInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if in.Name == nil && in.Builder == nil {
			return errBadRequest(c, "name or builder_options is required")
		}
		fp, err := deps.FlightPlans.Update(c.UserContext(), id, in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fp)
	}
}

// DeleteFlightPlanHandler removes a plan and everything recorded against it.
func DeleteFlightPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid flight plan id")
		}
		if err := deps.FlightPlans.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// BuildFlightPlanHandler runs the vertical coverage builder. With save set
// the result is stored as a new plan and the response status is 201.
func BuildFlightPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req buildRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		out, err := deps.FlightPlans.Build(c.UserContext(), usecases.BuildInput{
			Name:    req.Name,
			Save:    req.Save,
			Options: req.BuilderOptions,
		})
		if err != nil {
			return writeError(c, err)
		}
		status := fiber.StatusOK
		if out.Plan != nil {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(out)
	}
}

// FlightPlanGeoJSONHandler renders a stored plan as a GeoJSON FeatureCollection.
func FlightPlanGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid flight plan id")
		}
		fp, err := deps.FlightPlans.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		data, err := flightpath.FeatureCollection(fp.Name, fp.Distance, fp.Waypoints).MarshalJSON()
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}
