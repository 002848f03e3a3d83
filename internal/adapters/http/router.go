package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// uploadTimeout covers multipart uploads of full-size captures.
const uploadTimeout = 60 * time.Second

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	app.Use(AccessLogMiddleware())

	// Rate limiting: 300 requests per minute per IP (a recon uploads up to 100 images)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/infos", withTimeout(AppInfoHandler(deps)))

	v1.Get("/flightplans", withTimeout(ListFlightPlansHandler(deps)))
	v1.Post("/flightplans", withTimeout(CreateFlightPlanHandler(deps)))
	v1.Post("/flightplans/build", withTimeout(BuildFlightPlanHandler(deps)))
	v1.Get("/flightplans/:id", withTimeout(GetFlightPlanHandler(deps)))
	v1.Put("/flightplans/:id", withTimeout(UpdateFlightPlanHandler(deps)))
	v1.Delete("/flightplans/:id", withTimeout(DeleteFlightPlanHandler(deps)))
	v1.Get("/flightplans/:id/geojson", withTimeout(FlightPlanGeoJSONHandler(deps)))

	v1.Get("/waypoints", withTimeout(ListWaypointsHandler(deps)))
	v1.Post("/waypoints", withTimeout(CreateWaypointHandler(deps)))
	v1.Get("/waypoints/:id", withTimeout(GetWaypointHandler(deps)))
	v1.Put("/waypoints/:id", withTimeout(UpdateWaypointHandler(deps)))
	v1.Delete("/waypoints/:id", withTimeout(DeleteWaypointHandler(deps)))

	v1.Get("/recons", withTimeout(ListReconsHandler(deps)))
	v1.Post("/recons", withTimeout(CreateReconHandler(deps)))
	v1.Get("/recons/:id", withTimeout(GetReconHandler(deps)))
	v1.Delete("/recons/:id", withTimeout(DeleteReconHandler(deps)))

	v1.Get("/resources", withTimeout(ListResourcesHandler(deps)))
	v1.Post("/resources", withTimeout(CreateResourceHandler(deps)))
	v1.Get("/resources/:id", withTimeout(GetResourceHandler(deps)))
	v1.Put("/resources/:id", withTimeout(UpdateResourceHandler(deps)))
	v1.Delete("/resources/:id", withTimeout(DeleteResourceHandler(deps)))
	v1.Get("/resources/:id/content", withTimeout(GetResourceContentHandler(deps)))
	v1.Post("/resources/:id/content", timeout.NewWithContext(UploadResourceContentHandler(deps), uploadTimeout))
	v1.Delete("/resources/:id/content", withTimeout(DeleteResourceContentHandler(deps)))
	v1.Get("/resources/:id/thumbnail", withTimeout(GetResourceThumbnailHandler(deps)))

	v1.Get("/analysis", withTimeout(ListAnalysesHandler(deps)))
	v1.Post("/analysis", withTimeout(CreateAnalysisHandler(deps)))
	v1.Get("/analysis/:id", withTimeout(GetAnalysisHandler(deps)))
	v1.Delete("/analysis/:id", withTimeout(DeleteAnalysisHandler(deps)))
	v1.Get("/results/:id", withTimeout(GetResultHandler(deps)))
	v1.Get("/results/:id/content", withTimeout(GetResultContentHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.DocsSpec)

	// WebSocket analysis progress relay
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
