package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/telemetry"
)

// ErrAsyncUnavailable is returned by RequestPlan when no broker is wired.
var ErrAsyncUnavailable = errors.New("async planning unavailable")

// PlanRequest describes a trip to plan.
type PlanRequest struct {
	Origin        domain.Location `json:"origin"`
	Destination   domain.Location `json:"destination"`
	DepartureTime time.Time       `json:"departure_time"` // zero means now
	Alternatives  bool            `json:"alternatives"`
	Forecast      bool            `json:"forecast"`
}

// TripService runs the route → samples → weather → segments → summary
// pipeline.
type TripService struct {
	routes  *RouteService
	weather *WeatherService
	events  ports.EventPublisher
	now     func() time.Time
	newID   func() string
}

// NewTripService creates a new TripService. events may be nil.
func NewTripService(routes *RouteService, weather *WeatherService, events ports.EventPublisher) *TripService {
	return &TripService{
		routes:  routes,
		weather: weather,
		events:  events,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Plan plans a trip synchronously. Weather is gathered for the first route
// only; other routes are returned as alternatives.
func (s *TripService) Plan(ctx context.Context, req PlanRequest) (plan *domain.TripPlan, err error) {
	ctx, span := telemetry.StartSpan(ctx, "trip.plan",
		attribute.Bool("trip.forecast", req.Forecast),
		attribute.Bool("trip.alternatives", req.Alternatives),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	routes, err := s.resolveRoutes(ctx, req)
	if err != nil {
		return nil, err
	}

	plan, err = s.forRoute(ctx, routes[0], s.departure(req.DepartureTime), req.Forecast)
	if err != nil {
		return nil, err
	}
	plan.Alternatives = routes[1:]
	span.SetAttributes(attribute.String("trip.id", plan.ID), attribute.String("trip.worst_severity", plan.Summary.WorstSeverity.String()))

	metrics.TripsPlanned.WithLabelValues("sync", plan.Summary.WorstSeverity.String()).Inc()
	s.publish(ctx, plan)
	return plan, nil
}

// WeatherForRoute runs the weather part of the pipeline for a route the
// caller already has, such as one of a plan's alternatives.
func (s *TripService) WeatherForRoute(ctx context.Context, route domain.Route, departure time.Time, forecast bool) (plan *domain.TripPlan, err error) {
	ctx, span := telemetry.StartSpan(ctx, "trip.weather_for_route", attribute.String("route.id", route.ID))
	defer func() { telemetry.EndSpan(span, err) }()

	plan, err = s.forRoute(ctx, route, s.departure(departure), forecast)
	if err != nil {
		return nil, err
	}
	metrics.TripsPlanned.WithLabelValues("route", plan.Summary.WorstSeverity.String()).Inc()
	return plan, nil
}

// RequestPlan hands the trip to the planner worker and returns its id.
func (s *TripService) RequestPlan(ctx context.Context, req PlanRequest) (string, error) {
	if s.events == nil {
		return "", ErrAsyncUnavailable
	}
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return "", fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	event := &domain.TripRequestedEvent{
		TripID:        s.newID(),
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: s.departure(req.DepartureTime),
		Alternatives:  req.Alternatives,
		Forecast:      req.Forecast,
		RequestedAt:   s.now().UTC(),
	}
	if err := s.events.PublishTripRequested(ctx, event); err != nil {
		return "", fmt.Errorf("request plan: %w", err)
	}
	return event.TripID, nil
}

func (s *TripService) resolveRoutes(ctx context.Context, req PlanRequest) (routes []domain.Route, err error) {
	ctx, span := telemetry.StartSpan(ctx, "trip.routes")
	defer func() { telemetry.EndSpan(span, err) }()
	return s.routes.Directions(ctx, req.Origin, req.Destination, req.Alternatives)
}

func (s *TripService) forRoute(ctx context.Context, route domain.Route, departure time.Time, forecast bool) (*domain.TripPlan, error) {
	_, span := telemetry.StartSpan(ctx, "trip.sample")
	samples, err := tripweather.Sample(route.Geometry, route.Distance, route.Duration)
	span.SetAttributes(attribute.Int("trip.samples", len(samples)))
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	metrics.SamplesPerTrip.Observe(float64(len(samples)))

	wctx, span := telemetry.StartSpan(ctx, "trip.weather")
	readings, err := s.weather.AlongRoute(wctx, route.ID, samples, departure, forecast)
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	assembled, err := tripweather.Assemble(route, samples, readings)
	if err != nil {
		return nil, err
	}
	assembled.ID = s.newID()
	assembled.DepartureTime = departure
	assembled.PlannedAt = s.now().UTC()
	return &assembled, nil
}

func (s *TripService) departure(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t
}

func (s *TripService) publish(ctx context.Context, plan *domain.TripPlan) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTripPlanned(ctx, plan); err != nil {
		slog.WarnContext(ctx, "publish trip planned failed", "trip_id", plan.ID, "error", err)
	}
}
