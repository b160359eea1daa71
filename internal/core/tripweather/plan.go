package tripweather

import (
	"fmt"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/geospatial"
)

// Assemble segments and summarizes the readings taken along route. Readings
// must line up with samples. The caller fills in ID, DepartureTime,
// Alternatives and PlannedAt.
func Assemble(route domain.Route, samples []domain.WaypointSample, readings []domain.WeatherReading) (domain.TripPlan, error) {
	if len(readings) != len(samples) {
		return domain.TripPlan{}, fmt.Errorf("%w: %d readings for %d samples", domain.ErrInvalidInput, len(readings), len(samples))
	}
	summary, err := Summarize(readings)
	if err != nil {
		return domain.TripPlan{}, err
	}
	return domain.TripPlan{
		Origin:      route.Origin,
		Destination: route.Destination,
		Route:       route,
		Samples:     samples,
		Weather:     readings,
		Segments:    Segment(route.Geometry, readings),
		Summary:     summary,
		Bounds:      routeBounds(route.Geometry),
	}, nil
}

// routeBounds is nil for an empty geometry.
func routeBounds(geometry []domain.Coordinate) *domain.Bounds {
	path := make([][2]float64, len(geometry))
	for i, c := range geometry {
		path[i] = c
	}
	minLat, minLon, maxLat, maxLon, ok := geospatial.Bounds(path)
	if !ok {
		return nil
	}
	return &domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
}
