package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// gqlID reads an ID argument. graphql-go hands Int arguments over as int.
func gqlID(p graphql.ResolveParams, name string) int64 {
	v, _ := p.Args[name].(int)
	return int64(v)
}

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPosition",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
			"alt": &graphql.Field{Type: graphql.Float},
		},
	})

	gimbalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Gimbal",
		Fields: graphql.Fields{
			"yaw":   &graphql.Field{Type: graphql.Float},
			"pitch": &graphql.Field{Type: graphql.Float},
			"roll":  &graphql.Field{Type: graphql.Float},
		},
	})

	poseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DronePose",
		Fields: graphql.Fields{
			"rotation": &graphql.Field{Type: graphql.Float},
			"coord":    &graphql.Field{Type: positionType},
			"gimbal":   &graphql.Field{Type: gimbalType},
		},
	})

	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"flightplan_id": &graphql.Field{Type: graphql.Int},
			"number":        &graphql.Field{Type: graphql.Int},
			"parameters":    &graphql.Field{Type: poseType},
		},
	})

	flightPlanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FlightPlan",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"name":       &graphql.Field{Type: graphql.String},
			"distance":   &graphql.Field{Type: graphql.Float},
			"created_at": &graphql.Field{Type: graphql.DateTime},
			"updated_at": &graphql.Field{Type: graphql.DateTime},
			"waypoints":  &graphql.Field{Type: graphql.NewList(waypointType)},
		},
	})

	resourceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Resource",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"recon_id":   &graphql.Field{Type: graphql.Int},
			"number":     &graphql.Field{Type: graphql.Int},
			"filename":   &graphql.Field{Type: graphql.String},
			"parameters": &graphql.Field{Type: poseType},
		},
	})

	reconType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Recon",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"flightplan_id": &graphql.Field{Type: graphql.Int},
			"created_at":    &graphql.Field{Type: graphql.DateTime},
			"resources": &graphql.Field{
				Type: graphql.NewList(resourceType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var id int64
					switch rc := p.Source.(type) {
					case domain.Recon:
						id = rc.ID
					case *domain.Recon:
						id = rc.ID
					default:
						return nil, nil
					}
					return deps.Resources.List(p.Context, &id)
				},
			},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AnalysisResult",
		Fields: graphql.Fields{
			"id":                     &graphql.Field{Type: graphql.Int},
			"filename":               &graphql.Field{Type: graphql.String},
			"result":                 &graphql.Field{Type: graphql.Float},
			"minuend_resource_id":    &graphql.Field{Type: graphql.Int},
			"subtrahend_resource_id": &graphql.Field{Type: graphql.Int},
		},
	})

	analysisType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Analysis",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.Int},
			"minuend_recon_id":    &graphql.Field{Type: graphql.Int},
			"subtrahend_recon_id": &graphql.Field{Type: graphql.Int},
			"state":               &graphql.Field{Type: graphql.String},
			"total":               &graphql.Field{Type: graphql.Int},
			"current":             &graphql.Field{Type: graphql.Int},
			"message":             &graphql.Field{Type: graphql.String},
			"result":              &graphql.Field{Type: graphql.Float},
			"results":             &graphql.Field{Type: graphql.NewList(resultType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"flightPlans": &graphql.Field{
				Type:        graphql.NewList(flightPlanType),
				Description: "List flight plans (without waypoints)",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.FlightPlans.List(p.Context)
				},
			},
			"flightPlan": &graphql.Field{
				Type:        flightPlanType,
				Description: "Get a flight plan with its waypoints",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.FlightPlans.Get(p.Context, gqlID(p, "id"))
				},
			},
			"recons": &graphql.Field{
				Type:        graphql.NewList(reconType),
				Description: "Recons of a flight plan",
				Args: graphql.FieldConfigArgument{
					"flightplan_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := gqlID(p, "flightplan_id")
					return deps.Recons.List(p.Context, &id)
				},
			},
			"analyses": &graphql.Field{
				Type:        graphql.NewList(analysisType),
				Description: "List change analyses",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Analyses.List(p.Context)
				},
			},
			"analysis": &graphql.Field{
				Type:        analysisType,
				Description: "Get a change analysis with its results",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Analyses.Get(p.Context, gqlID(p, "id"))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
