package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

func newTripService(routes []domain.Route, provider *mockWeather, pub *mockPublisher) *usecases.TripService {
	rp := &mockRouteProvider{
		directionsFn: func(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
			if !alternatives {
				return routes[:1], nil
			}
			return routes, nil
		},
	}
	events := usecasesPublisher(pub)
	return usecases.NewTripService(
		usecases.NewRouteService(rp, nil),
		usecases.NewWeatherService(provider, syntheticFallback(), events, nil, 4),
		events,
	)
}

func TestTripService_Plan(t *testing.T) {
	main := meridianRoute(3)
	alt := meridianRoute(4)
	alt.ID = "route-1"
	pub := &mockPublisher{}
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			r := &domain.WeatherReading{Location: domain.LocationOf(point), Temperature: 10, Visibility: 10000, Description: "clear sky"}
			if point.Lat() > 1.5 {
				r.Temperature = 20
				r.Description = "snow"
			}
			return r, nil
		},
	}
	svc := newTripService([]domain.Route{main, alt}, provider, pub)
	departure := time.Date(2026, 1, 10, 7, 0, 0, 0, time.UTC)

	plan, err := svc.Plan(context.Background(), usecases.PlanRequest{
		Origin:        main.Origin,
		Destination:   main.Destination,
		DepartureTime: departure,
		Alternatives:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ID == "" || plan.Route.ID != "route-0" {
		t.Errorf("unexpected plan identity: id=%q route=%q", plan.ID, plan.Route.ID)
	}
	if len(plan.Alternatives) != 1 || plan.Alternatives[0].ID != "route-1" {
		t.Errorf("unexpected alternatives: %+v", plan.Alternatives)
	}
	if !plan.DepartureTime.Equal(departure) {
		t.Errorf("departure = %v, want %v", plan.DepartureTime, departure)
	}
	if len(plan.Samples) < 2 || len(plan.Weather) != len(plan.Samples) {
		t.Fatalf("samples/readings mismatch: %d/%d", len(plan.Samples), len(plan.Weather))
	}
	if len(plan.Segments) != len(plan.Weather)-1 {
		t.Errorf("expected %d segments, got %d", len(plan.Weather)-1, len(plan.Segments))
	}
	if plan.Summary.WorstSeverity != domain.SeverityWarning || plan.Summary.WorstDescription != "snow" {
		t.Errorf("unexpected summary: %+v", plan.Summary)
	}
	if plan.Summary.TempMin != 10 || plan.Summary.TempMax != 20 {
		t.Errorf("unexpected temperature range: %+v", plan.Summary)
	}
	if len(pub.planned) != 1 || pub.planned[0].ID != plan.ID {
		t.Errorf("expected trip planned event, got %d", len(pub.planned))
	}
}

func TestTripService_PlanDefaultsDepartureToNow(t *testing.T) {
	route := meridianRoute(1)
	svc := newTripService([]domain.Route{route}, &mockWeather{}, nil)

	before := time.Now().UTC()
	plan, err := svc.Plan(context.Background(), usecases.PlanRequest{Origin: route.Origin, Destination: route.Destination})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.DepartureTime.Before(before) {
		t.Errorf("departure %v should default to now", plan.DepartureTime)
	}
}

func TestTripService_PlanInvalidInput(t *testing.T) {
	svc := newTripService([]domain.Route{meridianRoute(1)}, &mockWeather{}, nil)
	_, err := svc.Plan(context.Background(), usecases.PlanRequest{Origin: domain.Location{Lat: 100}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTripService_PlanRejectsDegenerateRoute(t *testing.T) {
	route := meridianRoute(1)
	route.Geometry = route.Geometry[:1]
	svc := newTripService([]domain.Route{route}, &mockWeather{}, nil)

	_, err := svc.Plan(context.Background(), usecases.PlanRequest{Origin: route.Origin, Destination: route.Destination})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTripService_WeatherForRoute(t *testing.T) {
	svc := newTripService([]domain.Route{meridianRoute(1)}, &mockWeather{}, nil)
	alt := meridianRoute(2)
	alt.ID = "route-1"

	plan, err := svc.WeatherForRoute(context.Background(), alt, time.Time{}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Route.ID != "route-1" || plan.Summary.WorstSeverity != domain.SeverityClear {
		t.Errorf("unexpected plan: route=%q summary=%+v", plan.Route.ID, plan.Summary)
	}
}

func TestTripService_RequestPlan(t *testing.T) {
	route := meridianRoute(1)
	pub := &mockPublisher{}
	svc := newTripService([]domain.Route{route}, &mockWeather{}, pub)

	id, err := svc.RequestPlan(context.Background(), usecases.PlanRequest{Origin: route.Origin, Destination: route.Destination, Forecast: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.requested) != 1 || pub.requested[0].TripID != id || !pub.requested[0].Forecast {
		t.Errorf("unexpected request events: %+v", pub.requested)
	}
	if pub.requested[0].DepartureTime.IsZero() {
		t.Error("departure should be filled in")
	}
}

func TestTripService_RequestPlanWithoutBroker(t *testing.T) {
	route := meridianRoute(1)
	svc := newTripService([]domain.Route{route}, &mockWeather{}, nil)

	_, err := svc.RequestPlan(context.Background(), usecases.PlanRequest{Origin: route.Origin, Destination: route.Destination})
	if !errors.Is(err, usecases.ErrAsyncUnavailable) {
		t.Fatalf("expected ErrAsyncUnavailable, got %v", err)
	}
}
