package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

const (
	defaultGeocodeLimit = 5
	maxGeocodeLimit     = 10
	geocodeCacheTTL     = 24 * 60 * 60
)

// GeocodeService resolves free-text addresses to places.
type GeocodeService struct {
	geocoder ports.Geocoder
	places   ports.PlaceRepository
	cache    ports.CacheService
}

// NewGeocodeService creates a new GeocodeService. places and cache may be nil.
func NewGeocodeService(geocoder ports.Geocoder, places ports.PlaceRepository, cache ports.CacheService) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, places: places, cache: cache}
}

// Search looks the query up in the cache, then the place store, then the
// geocoders, writing fresh results back to both.
func (s *GeocodeService) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultGeocodeLimit
	}
	if limit > maxGeocodeLimit {
		limit = maxGeocodeLimit
	}

	// Try cache
	cacheKey := fmt.Sprintf("geocode:%s:%d", strings.ToLower(query), limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	if s.places != nil {
		stored, err := s.places.Search(ctx, query, limit)
		if err != nil {
			slog.WarnContext(ctx, "place store lookup failed", "error", err)
		} else if len(stored) > 0 {
			s.remember(ctx, cacheKey, stored)
			return stored, nil
		}
	}

	places, err := s.geocoder.Geocode(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(places) > limit {
		places = places[:limit]
	}

	if s.places != nil {
		if err := s.places.Upsert(ctx, query, places); err != nil {
			slog.WarnContext(ctx, "place store write failed", "error", err)
		}
	}
	s.remember(ctx, cacheKey, places)

	return places, nil
}

// Resolve returns the best match for query.
func (s *GeocodeService) Resolve(ctx context.Context, query string) (domain.Location, error) {
	places, err := s.Search(ctx, query, 1)
	if err != nil {
		return domain.Location{}, err
	}
	if len(places) == 0 {
		return domain.Location{}, fmt.Errorf("%q: %w", query, domain.ErrNotFound)
	}
	return places[0].Location(), nil
}

func (s *GeocodeService) remember(ctx context.Context, key string, places []domain.Place) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(places); err == nil {
		_ = s.cache.Set(ctx, key, data, geocodeCacheTTL)
	}
}
