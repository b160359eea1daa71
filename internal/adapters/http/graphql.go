package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

// coordinateList renders lon-first coordinates as nested float lists.
// graphql-go only iterates slices, not arrays.
func coordinateList(cs []domain.Coordinate) [][]float64 {
	out := make([][]float64, len(cs))
	for i, c := range cs {
		out[i] = []float64{c[0], c[1]}
	}
	return out
}

// severityName resolves a severity field on any of the types that carry one.
func severityName(p graphql.ResolveParams) (interface{}, error) {
	switch v := p.Source.(type) {
	case domain.WeatherReading:
		return v.Severity.String(), nil
	case domain.RouteSegment:
		return v.Severity.String(), nil
	case domain.TripSummary:
		return v.WorstSeverity.String(), nil
	}
	return nil, nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"lat":     &graphql.Field{Type: graphql.Float},
			"lng":     &graphql.Field{Type: graphql.Float},
			"address": &graphql.Field{Type: graphql.String},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"place_name": &graphql.Field{Type: graphql.String},
			"place_type": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"address":    &graphql.Field{Type: graphql.String},
			"center": &graphql.Field{
				Type: graphql.NewList(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c := p.Source.(domain.Place).Center
					return []float64{c[0], c[1]}, nil
				},
			},
			"location": &graphql.Field{
				Type: locationType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Place).Location(), nil
				},
			},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"provider":    &graphql.Field{Type: graphql.String},
			"distance":    &graphql.Field{Type: graphql.Float},
			"duration":    &graphql.Field{Type: graphql.Float},
			"origin":      &graphql.Field{Type: locationType},
			"destination": &graphql.Field{Type: locationType},
			"geometry": &graphql.Field{
				Type: graphql.NewList(graphql.NewList(graphql.Float)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return coordinateList(p.Source.(domain.Route).Geometry), nil
				},
			},
		},
	})

	weatherType := graphql.NewObject(graphql.ObjectConfig{
		Name: "WeatherReading",
		Fields: graphql.Fields{
			"location":      &graphql.Field{Type: locationType},
			"temperature":   &graphql.Field{Type: graphql.Float},
			"feels_like":    &graphql.Field{Type: graphql.Float},
			"humidity":      &graphql.Field{Type: graphql.Float},
			"wind_speed":    &graphql.Field{Type: graphql.Float},
			"visibility":    &graphql.Field{Type: graphql.Float},
			"precipitation": &graphql.Field{Type: graphql.Float},
			"description":   &graphql.Field{Type: graphql.String},
			"icon":          &graphql.Field{Type: graphql.String},
			"source":        &graphql.Field{Type: graphql.String},
			"severity":      &graphql.Field{Type: graphql.String, Resolve: severityName},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSegment",
		Fields: graphql.Fields{
			"color":    &graphql.Field{Type: graphql.String},
			"severity": &graphql.Field{Type: graphql.String, Resolve: severityName},
			"coordinates": &graphql.Field{
				Type: graphql.NewList(graphql.NewList(graphql.Float)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return coordinateList(p.Source.(domain.RouteSegment).Coordinates), nil
				},
			},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripSummary",
		Fields: graphql.Fields{
			"worst_severity":    &graphql.Field{Type: graphql.String, Resolve: severityName},
			"worst_description": &graphql.Field{Type: graphql.String},
			"temp_min":          &graphql.Field{Type: graphql.Float},
			"temp_max":          &graphql.Field{Type: graphql.Float},
			"temp_avg":          &graphql.Field{Type: graphql.Float},
			"max_precipitation": &graphql.Field{Type: graphql.Float},
			"max_wind":          &graphql.Field{Type: graphql.Float},
			"alert_count":       &graphql.Field{Type: graphql.Int},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripPlan",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"route":          &graphql.Field{Type: routeType},
			"alternatives":   &graphql.Field{Type: graphql.NewList(routeType)},
			"weather":        &graphql.Field{Type: graphql.NewList(weatherType)},
			"segments":       &graphql.Field{Type: graphql.NewList(segmentType)},
			"summary":        &graphql.Field{Type: summaryType},
			"bounds":         &graphql.Field{Type: boundsType},
			"departure_time": &graphql.Field{Type: graphql.DateTime},
			"planned_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	classificationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Classification",
		Fields: graphql.Fields{
			"severity": &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
			"rule":     &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"geocode": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Search places by free text",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Geocode.Search(p.Context, q, limit)
				},
			},
			"classify": &graphql.Field{
				Type:        classificationType,
				Description: "Grade weather conditions into a severity tier",
				Args: graphql.FieldConfigArgument{
					"precipitation": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"wind_speed":    &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"visibility":    &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 10000.0},
					"description":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"alerts":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					// only presence matters to the rules
					alerts := min(max(p.Args["alerts"].(int), 0), 1)
					r := domain.WeatherReading{
						Precipitation: p.Args["precipitation"].(float64),
						WindSpeed:     p.Args["wind_speed"].(float64),
						Visibility:    p.Args["visibility"].(float64),
						Description:   p.Args["description"].(string),
						Alerts:        make([]domain.WeatherAlert, alerts),
					}
					tier, rule := tripweather.Explain(r)
					return map[string]interface{}{
						"severity": tier.String(),
						"color":    tier.Color(),
						"rule":     rule,
					}, nil
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "Plan a trip and grade the weather along it",
				Args: graphql.FieldConfigArgument{
					"origin_lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"origin_lng":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destination_lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"destination_lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"departure_time":  &graphql.ArgumentConfig{Type: graphql.DateTime},
					"forecast":        &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"alternatives":    &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := usecases.PlanRequest{
						Origin:       domain.Location{Lat: p.Args["origin_lat"].(float64), Lng: p.Args["origin_lng"].(float64)},
						Destination:  domain.Location{Lat: p.Args["destination_lat"].(float64), Lng: p.Args["destination_lng"].(float64)},
						Forecast:     p.Args["forecast"].(bool),
						Alternatives: p.Args["alternatives"].(bool),
					}
					if dep, ok := p.Args["departure_time"].(time.Time); ok {
						req.DepartureTime = dep
					}
					plan, err := deps.Trips.Plan(p.Context, req)
					if err != nil {
						return nil, err
					}
					return *plan, nil
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
