// Package tripweather correlates a driving route with weather readings along
// it: it picks the points to query, grades each reading, colors the route
// between readings and reduces the readings to a trip summary.
//
// Everything here is pure and safe for concurrent use. Coordinates are
// lon-first throughout.
package tripweather

import (
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/geospatial"
)

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b domain.Coordinate) float64 {
	return geospatial.Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}
