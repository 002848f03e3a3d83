package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.temporal.io/sdk/client"
)

// Version is reported by the health endpoint; set at build time with -ldflags.
var Version = "dev"

const readyTimeout = 3 * time.Second

// HealthHandler reports liveness and the configured waypoint ceiling.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "healthy",
			"uptime":        time.Since(startedAt).String(),
			"version":       Version,
			"max_waypoints": deps.FlightPlans.MaxWaypoints(),
		})
	}
}

// probe is one readiness check. required probes fail readiness; the others
// only degrade optional features.
type probe struct {
	name     string
	required bool
	check    func(ctx context.Context) (state string, ok bool)
}

func readinessProbes(deps *Dependencies) []probe {
	return []probe{
		{name: "database", required: true, check: func(ctx context.Context) (string, bool) {
			if deps.DB == nil {
				return "not configured", false
			}
			if err := deps.DB.Pool.Ping(ctx); err != nil {
				return "error: " + err.Error(), false
			}
			return "ok", true
		}},
		{name: "nats", check: func(ctx context.Context) (string, bool) {
			if deps.NATS == nil {
				return "not configured", true
			}
			if !deps.NATS.IsConnected() {
				return "disconnected", false
			}
			return "ok", true
		}},
		{name: "cache", check: func(ctx context.Context) (string, bool) {
			if deps.Cache == nil {
				return "in-process", true
			}
			if err := deps.Cache.Ping(ctx); err != nil {
				return "error: " + err.Error(), false
			}
			return "ok", true
		}},
		{name: "temporal", check: func(ctx context.Context) (string, bool) {
			if deps.Temporal == nil {
				return "not configured", true
			}
			if _, err := deps.Temporal.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
				return "error: " + err.Error(), false
			}
			return "ok", true
		}},
	}
}

// ReadyHandler runs the readiness probes. Only a failing required probe
// turns the response into 503; the rest report "degraded".
func ReadyHandler(deps *Dependencies) fiber.Handler {
	probes := readinessProbes(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, len(probes))
		status, code := "ready", fiber.StatusOK
		for _, p := range probes {
			state, ok := p.check(ctx)
			checks[p.name] = state
			switch {
			case ok:
			case p.required:
				status, code = "not ready", fiber.StatusServiceUnavailable
			case code == fiber.StatusOK:
				status = "degraded"
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
