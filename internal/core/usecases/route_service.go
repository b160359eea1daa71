package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

const routeCacheTTL = 10 * 60

// RouteService handles route lookups.
type RouteService struct {
	provider ports.RouteProvider
	cache    ports.CacheService
}

// NewRouteService creates a new RouteService. cache may be nil.
func NewRouteService(provider ports.RouteProvider, cache ports.CacheService) *RouteService {
	return &RouteService{provider: provider, cache: cache}
}

// Directions returns at least one route from origin to destination. The
// first route is the recommended one.
func (s *RouteService) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("%w: origin %v,%v out of range", domain.ErrInvalidInput, origin.Lat, origin.Lng)
	}
	if !destination.Valid() {
		return nil, fmt.Errorf("%w: destination %v,%v out of range", domain.ErrInvalidInput, destination.Lat, destination.Lng)
	}

	// Try cache
	cacheKey := fmt.Sprintf("route:%.4f,%.4f:%.4f,%.4f:%t",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng, alternatives)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var routes []domain.Route
			if err := json.Unmarshal(data, &routes); err == nil && len(routes) > 0 {
				metrics.CacheHits.WithLabelValues("route").Inc()
				return routes, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	routes, err := s.provider.Directions(ctx, origin, destination, alternatives)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("route: %w", domain.ErrNotFound)
	}

	if s.cache != nil {
		if data, err := json.Marshal(routes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, routeCacheTTL)
		}
	}

	return routes, nil
}
