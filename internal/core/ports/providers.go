package ports

import (
	"context"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// RouteProvider returns driving routes between two points. The first route
// is the primary; the rest are alternatives.
type RouteProvider interface {
	Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error)
	Name() string
}

// Geocoder resolves free-text addresses to places.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error)
	Name() string
}

// WeatherProvider returns the weather at a point. When forecast is true the
// provider should answer for the instant at rather than for now.
type WeatherProvider interface {
	Reading(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error)
	Name() string
}
