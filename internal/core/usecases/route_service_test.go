package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

func TestRouteService_Validation(t *testing.T) {
	svc := usecases.NewRouteService(&mockRouteProvider{}, nil)
	ok := domain.Location{Lat: 43.263, Lng: -2.935}

	tests := []struct {
		name        string
		origin, dst domain.Location
	}{
		{"lat too high", domain.Location{Lat: 91}, ok},
		{"lng too low", ok, domain.Location{Lng: -181}},
		{"nan", domain.Location{Lat: math.NaN()}, ok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Directions(context.Background(), tt.origin, tt.dst, false)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRouteService_EmptyIsNotFound(t *testing.T) {
	svc := usecases.NewRouteService(&mockRouteProvider{}, nil)
	_, err := svc.Directions(context.Background(), domain.Location{}, domain.Location{Lat: 1}, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRouteService_Cached(t *testing.T) {
	provider := &mockRouteProvider{
		directionsFn: func(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
			return []domain.Route{meridianRoute(1)}, nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewRouteService(provider, cache)

	origin := domain.Location{Lat: 43.26301, Lng: -2.93501}
	dst := domain.Location{Lat: 40.4168, Lng: -3.7038}
	for i := 0; i < 2; i++ {
		routes, err := svc.Directions(context.Background(), origin, dst, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(routes) != 1 || routes[0].ID != "route-0" {
			t.Fatalf("unexpected routes: %+v", routes)
		}
	}
	if provider.calls != 1 {
		t.Errorf("expected provider called once, got %d", provider.calls)
	}
	if cache.ttls["route:43.2630,-2.9350:40.4168,-3.7038:true"] != 600 {
		t.Errorf("unexpected cache entries: %v", cache.ttls)
	}
}

func TestRouteService_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	svc := usecases.NewRouteService(&mockRouteProvider{
		directionsFn: func(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
			return nil, boom
		},
	}, nil)
	if _, err := svc.Directions(context.Background(), domain.Location{}, domain.Location{}, false); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
