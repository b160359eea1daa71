package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
)

// --- Mock RouteProvider ---

type mockRouteProvider struct {
	directionsFn func(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error)
	calls        int
}

func (m *mockRouteProvider) Name() string { return "mock" }

func (m *mockRouteProvider) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	m.calls++
	if m.directionsFn != nil {
		return m.directionsFn(ctx, origin, destination, alternatives)
	}
	return nil, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	calls     int
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	m.calls++
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, query, limit)
	}
	return nil, nil
}

// --- Mock WeatherProvider ---

type mockWeather struct {
	readingFn func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error)
}

func (m *mockWeather) Name() string { return "mock" }

func (m *mockWeather) Reading(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
	if m.readingFn != nil {
		return m.readingFn(ctx, point, at, forecast)
	}
	return &domain.WeatherReading{Location: domain.LocationOf(point), Description: "clear sky", Visibility: 10000}, nil
}

// --- Mock PlaceRepository ---

type mockPlaceRepo struct {
	searchFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	upserted map[string][]domain.Place
}

func (m *mockPlaceRepo) Upsert(ctx context.Context, query string, places []domain.Place) error {
	if m.upserted == nil {
		m.upserted = map[string][]domain.Place{}
	}
	m.upserted[query] = places
	return nil
}

func (m *mockPlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	requested []*domain.TripRequestedEvent
	planned   []*domain.TripPlan
	severe    []domain.WeatherReading
	err       error
}

func (m *mockPublisher) PublishTripRequested(ctx context.Context, event *domain.TripRequestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, event)
	return m.err
}

func (m *mockPublisher) PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planned = append(m.planned, plan)
	return m.err
}

func (m *mockPublisher) PublishSevereWeather(ctx context.Context, routeID string, reading *domain.WeatherReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.severe = append(m.severe, *reading)
	return m.err
}

// meridianRoute is a due-north route of the given length in degrees, with
// a 60 mph duration.
func meridianRoute(degrees float64) domain.Route {
	geom := make([]domain.Coordinate, 0, 11)
	for i := 0; i <= 10; i++ {
		geom = append(geom, domain.CoordinateOf(degrees*float64(i)/10, 0))
	}
	dist := degrees * 111195
	return domain.Route{
		ID:          "route-0",
		Origin:      domain.LocationOf(geom[0]),
		Destination: domain.LocationOf(geom[10]),
		Distance:    dist,
		Duration:    dist / 26.8224,
		Geometry:    geom,
		Provider:    "mock",
	}
}

// usecasesPublisher keeps a nil *mockPublisher from becoming a non-nil
// interface value.
func usecasesPublisher(p *mockPublisher) ports.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
