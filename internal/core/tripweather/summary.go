package tripweather

import (
	"fmt"
	"math"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// Summarize reduces the readings of one trip to trip-level statistics.
// The first reading at the worst tier supplies WorstDescription.
func Summarize(readings []domain.WeatherReading) (domain.TripSummary, error) {
	if len(readings) == 0 {
		return domain.TripSummary{}, fmt.Errorf("%w: no weather readings to summarize", domain.ErrInvalidInput)
	}

	first := readings[0]
	s := domain.TripSummary{
		WorstSeverity:    first.Severity,
		WorstDescription: first.Description,
		TempMin:          math.Inf(1),
		TempMax:          math.Inf(-1),
	}

	var tempSum float64
	for i, r := range readings {
		if !finite(r.Temperature, r.Precipitation, r.WindSpeed) {
			return domain.TripSummary{}, fmt.Errorf("%w: reading %d has non-finite values", domain.ErrInvalidInput, i)
		}
		if r.Severity > s.WorstSeverity {
			s.WorstSeverity = r.Severity
			s.WorstDescription = r.Description
		}
		s.TempMin = math.Min(s.TempMin, r.Temperature)
		s.TempMax = math.Max(s.TempMax, r.Temperature)
		tempSum += r.Temperature
		s.MaxPrecipitation = math.Max(s.MaxPrecipitation, r.Precipitation)
		s.MaxWind = math.Max(s.MaxWind, r.WindSpeed)
		s.AlertCount += len(r.Alerts)
	}
	s.TempAvg = tempSum / float64(len(readings))

	// finite inputs can still overflow the sum
	if !finite(s.TempAvg) {
		return domain.TripSummary{}, fmt.Errorf("%w: temperature readings are not finite", domain.ErrInvalidInput)
	}
	return s, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
