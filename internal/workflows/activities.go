package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

// PlanActivities holds the activity implementations for the trip planning workflow.
type PlanActivities struct {
	Routes  *usecases.RouteService
	Weather *usecases.WeatherService
	Events  ports.EventPublisher
}

// FetchWeatherInput is the argument of the FetchWeather activity.
type FetchWeatherInput struct {
	RouteID   string
	Samples   []domain.WaypointSample
	Departure time.Time
	Forecast  bool
}

// ResolveRoute returns the recommended route first, then any alternatives.
func (a *PlanActivities) ResolveRoute(ctx context.Context, input PlanTripInput) ([]domain.Route, error) {
	routes, err := a.Routes.Directions(ctx, input.Origin, input.Destination, input.Alternatives)
	if errors.Is(err, domain.ErrInvalidInput) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve route: %w", err)
	}
	return routes, nil
}

// FetchWeather looks up weather for every sample.
func (a *PlanActivities) FetchWeather(ctx context.Context, input FetchWeatherInput) ([]domain.WeatherReading, error) {
	readings, err := a.Weather.AlongRoute(ctx, input.RouteID, input.Samples, input.Departure, input.Forecast)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	return readings, nil
}

// PublishPlan announces a finished plan.
func (a *PlanActivities) PublishPlan(ctx context.Context, plan *domain.TripPlan) error {
	metrics.TripsPlanned.WithLabelValues("async", plan.Summary.WorstSeverity.String()).Inc()
	if a.Events == nil {
		slog.InfoContext(ctx, "trip planned (no publisher)", "trip_id", plan.ID, "worst", plan.Summary.WorstSeverity.String())
		return nil
	}
	return a.Events.PublishTripPlanned(ctx, plan)
}
