package tripweather

import (
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// Segment splits geometry into the stretches between consecutive readings,
// each tagged with the worse of its two bounding readings.
//
// Readings are matched to the nearest geometry vertex by planar distance in
// lon/lat space. That is only an approximation of geodesic distance but
// samples are dense relative to route curvature. Pairs whose matched indices
// are not strictly increasing produce no segment.
func Segment(geometry []domain.Coordinate, readings []domain.WeatherReading) []domain.RouteSegment {
	if len(geometry) == 0 || len(readings) < 2 {
		return nil
	}

	var segments []domain.RouteSegment
	for i := 0; i+1 < len(readings); i++ {
		start := nearestIndex(geometry, readings[i].Location.Coordinate())
		end := nearestIndex(geometry, readings[i+1].Location.Coordinate())
		if start >= end {
			continue
		}

		coords := make([]domain.Coordinate, end-start+1)
		copy(coords, geometry[start:end+1])

		tier := domain.Worse(readings[i].Severity, readings[i+1].Severity)
		segments = append(segments, domain.RouteSegment{
			Coordinates: coords,
			Severity:    tier,
			Color:       tier.Color(),
		})
	}
	return segments
}

// nearestIndex returns the first index of the vertex closest to p.
func nearestIndex(geometry []domain.Coordinate, p domain.Coordinate) int {
	best, bestDist := 0, planarDist2(geometry[0], p)
	for i := 1; i < len(geometry); i++ {
		if d := planarDist2(geometry[i], p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func planarDist2(a, b domain.Coordinate) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}
