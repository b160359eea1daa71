package http

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

const (
	maxQueryLength = 200
	maxWaypoints   = 100
)

// GeocodeHandler searches places by free text.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > maxQueryLength {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		places, err := deps.Geocode.Search(c.UserContext(), query, c.QueryInt("limit", 5))
		if err != nil {
			return errFromDomain(c, err)
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}

type routeRequest struct {
	Origin       *domain.Location `json:"origin"`
	Destination  *domain.Location `json:"destination"`
	Alternatives bool             `json:"alternatives"`
}

// RoutesHandler returns driving routes between two points, recommended first.
func RoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req routeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Origin == nil || req.Destination == nil {
			return errBadRequest(c, "origin and destination are required")
		}

		routes, err := deps.Routes.Directions(c.UserContext(), *req.Origin, *req.Destination, req.Alternatives)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(routes)
	}
}

type weatherRequest struct {
	RouteID       string                  `json:"route_id"`
	Waypoints     []domain.WaypointSample `json:"waypoints"`
	Forecast      bool                    `json:"forecast"`
	DepartureTime *time.Time              `json:"departure_time"`
}

// WeatherHandler returns one classified reading per waypoint, in order.
func WeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req weatherRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		departure := time.Now().UTC()
		if req.DepartureTime != nil {
			departure = *req.DepartureTime
		}
		return weatherAlong(c, deps, req.RouteID, req.Waypoints, departure, req.Forecast)
	}
}

// legacyWaypoint is the waypoint shape posted by the original web client.
type legacyWaypoint struct {
	Point         domain.Coordinate `json:"point"`
	Distance      float64           `json:"distance"`
	EstimatedTime float64           `json:"estimatedTime"`
}

type legacyWeatherRequest struct {
	Waypoints []legacyWaypoint `json:"waypoints"`
	Forecast  bool             `json:"forecast"`
}

// LegacyWeatherHandler serves /api/weather. It accepts the camelCase
// waypoints of the original client and always departs now.
func LegacyWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacyWeatherRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		waypoints := make([]domain.WaypointSample, len(req.Waypoints))
		for i, w := range req.Waypoints {
			waypoints[i] = domain.WaypointSample{Point: w.Point, Distance: w.Distance, EstimatedTime: w.EstimatedTime}
		}
		return weatherAlong(c, deps, "", waypoints, time.Now().UTC(), req.Forecast)
	}
}

func weatherAlong(c *fiber.Ctx, deps *Dependencies, routeID string, waypoints []domain.WaypointSample, departure time.Time, forecast bool) error {
	if len(waypoints) == 0 {
		return errBadRequest(c, "waypoints array is required")
	}
	if len(waypoints) > maxWaypoints {
		return errBadRequest(c, "too many waypoints (max 100)")
	}
	for _, w := range waypoints {
		if !domain.LocationOf(w.Point).Valid() {
			return errBadRequest(c, "waypoint out of range")
		}
		if math.IsNaN(w.EstimatedTime) || w.EstimatedTime < 0 {
			return errBadRequest(c, "estimated time must be non-negative")
		}
	}

	readings, err := deps.Weather.AlongRoute(c.UserContext(), routeID, waypoints, departure, forecast)
	if err != nil {
		return errFromDomain(c, err)
	}
	return c.JSON(readings)
}

type samplesRequest struct {
	Geometry []domain.Coordinate `json:"geometry"`
	Distance float64             `json:"distance"`
	Duration float64             `json:"duration"`
}

// SamplesHandler picks the weather sampling points along a geometry.
func SamplesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req samplesRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		samples, err := tripweather.Sample(req.Geometry, req.Distance, req.Duration)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(samples)
	}
}

// TripsHandler plans a trip. With ?async=true the trip is queued for the
// planner worker and only its id is returned.
func TripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.PlanRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if c.QueryBool("async", false) {
			id, err := deps.Trips.RequestPlan(c.UserContext(), req)
			if err != nil {
				return errFromDomain(c, err)
			}
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"trip_id": id,
				"status":  "accepted",
			})
		}

		plan, err := deps.Trips.Plan(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		return renderPlan(c, plan)
	}
}

// renderPlan writes the plan, or with ?format=geojson only its colored
// segments as a FeatureCollection.
func renderPlan(c *fiber.Ctx, plan *domain.TripPlan) error {
	switch c.Query("format") {
	case "", "json":
		return c.JSON(plan)
	case "geojson":
		return c.JSON(domain.SegmentsGeoJSON(plan.Segments), "application/geo+json")
	default:
		return errBadRequest(c, "format must be json or geojson")
	}
}

type tripWeatherRequest struct {
	Route         *domain.Route `json:"route"`
	DepartureTime time.Time     `json:"departure_time"`
	Forecast      bool          `json:"forecast"`
}

// TripWeatherHandler runs the weather pipeline for a route the client
// already holds, typically an alternative from an earlier plan.
func TripWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tripWeatherRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Route == nil {
			return errBadRequest(c, "route is required")
		}
		route := *req.Route
		for _, p := range route.Geometry {
			if !domain.LocationOf(p).Valid() {
				return errBadRequest(c, "route geometry out of range")
			}
		}
		// each sample costs one weather lookup
		samples, err := tripweather.Sample(route.Geometry, route.Distance, route.Duration)
		if err != nil {
			return errFromDomain(c, err)
		}
		if len(samples) > maxWaypoints {
			return errBadRequest(c, "route too long (max 100 weather samples)")
		}

		plan, err := deps.Trips.WeatherForRoute(c.UserContext(), route, req.DepartureTime, req.Forecast)
		if err != nil {
			return errFromDomain(c, err)
		}
		return renderPlan(c, plan)
	}
}
