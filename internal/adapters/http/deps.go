package http

import (
	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/dronesurvey/internal/adapters/postgres"
	"github.com/samirrijal/dronesurvey/internal/adapters/valkey"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	FlightPlans *usecases.FlightPlanService
	Waypoints   *usecases.WaypointService
	Recons      *usecases.ReconService
	Resources   *usecases.ResourceService
	Analyses    *usecases.AnalysisService
	Infos       *usecases.AppInfoService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	Temporal    client.Client

	// DocsSpec is the OpenAPI document served under /docs.
	DocsSpec string
}
