package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/core/tripweather"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

const (
	defaultWeatherConcurrency = 8
	weatherCacheTTL           = 10 * 60
)

// WeatherService fetches weather for every sample of a route.
type WeatherService struct {
	provider    ports.WeatherProvider
	fallback    ports.WeatherProvider
	events      ports.EventPublisher
	cache       ports.CacheService
	concurrency int
}

// NewWeatherService creates a new WeatherService. fallback must always
// answer; events and cache may be nil.
func NewWeatherService(provider, fallback ports.WeatherProvider, events ports.EventPublisher, cache ports.CacheService, concurrency int) *WeatherService {
	if concurrency <= 0 {
		concurrency = defaultWeatherConcurrency
	}
	return &WeatherService{
		provider:    provider,
		fallback:    fallback,
		events:      events,
		cache:       cache,
		concurrency: concurrency,
	}
}

// AlongRoute returns one classified reading per sample, in sample order.
// Each sample is looked up at departure plus its estimated travel time.
// Failed lookups are replaced with fallback readings; only context
// cancellation fails the whole call.
func (s *WeatherService) AlongRoute(ctx context.Context, routeID string, samples []domain.WaypointSample, departure time.Time, forecast bool) ([]domain.WeatherReading, error) {
	readings := make([]domain.WeatherReading, len(samples))
	errs := make([]error, len(samples))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, sample := range samples {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sample domain.WaypointSample) {
			defer wg.Done()
			defer func() { <-sem }()

			at := departure.Add(time.Duration(sample.EstimatedTime * float64(time.Second)))
			// the departure point is always current weather
			r, err := s.reading(ctx, sample.Point, at, forecast && sample.EstimatedTime > 0)
			if err != nil {
				errs[i] = err
				return
			}
			readings[i] = *r
		}(i, sample)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	for i := range readings {
		metrics.ReadingsBySeverity.WithLabelValues(readings[i].Severity.String()).Inc()
		if readings[i].Severity == domain.SeveritySevere && s.events != nil {
			if err := s.events.PublishSevereWeather(ctx, routeID, &readings[i]); err != nil {
				slog.WarnContext(ctx, "publish severe weather failed", "route_id", routeID, "error", err)
			}
		}
	}
	return readings, nil
}

func (s *WeatherService) reading(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
	cacheKey := fmt.Sprintf("weather:%.2f,%.2f:%d:%t", point.Lat(), point.Lon(), at.Truncate(time.Hour).Unix(), forecast)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var r domain.WeatherReading
			if err := json.Unmarshal(data, &r); err == nil {
				metrics.CacheHits.WithLabelValues("weather").Inc()
				r.Location = domain.LocationOf(point)
				return &r, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("weather").Inc()
	}

	started := time.Now()
	r, err := s.provider.Reading(ctx, point, at, forecast)
	if err == nil && r != nil {
		metrics.ObserveProvider("weather", s.provider.Name(), "ok", started)
		if r.Source != domain.SourceSynthetic {
			r.Severity = tripweather.Classify(*r)
		}
		if s.cache != nil {
			if data, err := json.Marshal(r); err == nil {
				_ = s.cache.Set(ctx, cacheKey, data, weatherCacheTTL)
			}
		}
		return r, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	metrics.ObserveProvider("weather", s.provider.Name(), "error", started)
	metrics.SyntheticFallbacks.WithLabelValues("weather").Inc()
	slog.InfoContext(ctx, "using fallback weather", "provider", s.provider.Name(), "lat", point.Lat(), "lng", point.Lon(), "error", err)

	r, err = s.fallback.Reading(ctx, point, at, forecast)
	if err != nil {
		return nil, fmt.Errorf("fallback weather: %w", err)
	}
	if r.Source != domain.SourceSynthetic {
		r.Severity = tripweather.Classify(*r)
	}
	return r, nil
}
