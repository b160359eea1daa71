package tripweather

import (
	"fmt"
	"math"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

const (
	// MaxSampleSpacing caps the distance between samples (50 mi).
	MaxSampleSpacing = 80467.0
	// MaxSampleInterval caps the driving time between samples (30 min).
	MaxSampleInterval = 1800.0
)

// Sample picks the points along geometry at which weather should be queried.
//
// A sample is emitted whenever the distance driven since the previous one
// reaches min(MaxSampleSpacing, speed*MaxSampleInterval), where speed is the
// route's average speed. The first sample is the route start at 0/0 and the
// last is the route end carrying the route totals. Routes with zero distance
// or zero duration yield just those two samples.
func Sample(geometry []domain.Coordinate, totalDistance, totalDuration float64) ([]domain.WaypointSample, error) {
	if len(geometry) < 2 {
		return nil, fmt.Errorf("%w: route geometry needs at least 2 points, got %d", domain.ErrInvalidInput, len(geometry))
	}
	if err := checkTotal("distance", totalDistance); err != nil {
		return nil, err
	}
	if err := checkTotal("duration", totalDuration); err != nil {
		return nil, err
	}

	samples := []domain.WaypointSample{{Point: geometry[0]}}

	if totalDistance > 0 && totalDuration > 0 {
		speed := totalDistance / totalDuration
		spacing := math.Min(MaxSampleSpacing, speed*MaxSampleInterval)

		var travelled, elapsed, sinceLast float64
		for i := 1; i < len(geometry); i++ {
			d := Distance(geometry[i-1], geometry[i])
			travelled += d
			elapsed += d / speed
			sinceLast += d

			// Past the reported total the end sample takes over, which keeps
			// the sequence non-decreasing when the provider's distance is
			// shorter than the polyline.
			if sinceLast >= spacing && travelled < totalDistance {
				samples = append(samples, domain.WaypointSample{
					Point:         geometry[i],
					Distance:      travelled,
					EstimatedTime: elapsed,
				})
				sinceLast = 0
			}
		}
	}

	end := geometry[len(geometry)-1]
	if last := &samples[len(samples)-1]; len(samples) > 1 && last.Point == end {
		last.Distance = totalDistance
		last.EstimatedTime = totalDuration
	} else {
		samples = append(samples, domain.WaypointSample{
			Point:         end,
			Distance:      totalDistance,
			EstimatedTime: totalDuration,
		})
	}
	return samples, nil
}

func checkTotal(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: route %s must be a finite non-negative number, got %v", domain.ErrInvalidInput, name, v)
	}
	return nil
}
