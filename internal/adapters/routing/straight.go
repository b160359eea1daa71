package routing

import (
	"context"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/geospatial"
)

const (
	// StraightRouteID identifies synthetic routes.
	StraightRouteID = "demo-route"

	straightDuration = 3600.0
)

// Straight builds a synthetic straight-line route. It never fails and is
// always the last link of a routing chain.
type Straight struct {
	points int
}

// NewStraight returns a router whose geometry has points+1 coordinates.
func NewStraight(points int) *Straight {
	if points < 1 {
		points = 10
	}
	return &Straight{points: points}
}

func (s *Straight) Name() string { return "straight" }

func (s *Straight) Directions(_ context.Context, origin, destination domain.Location, _ bool) ([]domain.Route, error) {
	path := geospatial.Interpolate(origin.Lat, origin.Lng, destination.Lat, destination.Lng, s.points)
	geometry := make([]domain.Coordinate, len(path))
	for i, p := range path {
		geometry[i] = domain.Coordinate(p)
	}

	return []domain.Route{{
		ID:          StraightRouteID,
		Origin:      origin,
		Destination: destination,
		Distance:    geospatial.Haversine(origin.Lat, origin.Lng, destination.Lat, destination.Lng),
		Duration:    straightDuration,
		Geometry:    geometry,
		Instructions: []domain.RouteInstruction{
			{Text: "Head toward destination", Type: "depart"},
			{Text: "Arrive at destination", Type: "arrive"},
		},
		Provider: s.Name(),
	}}, nil
}
