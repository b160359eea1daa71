package usecases_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

func samplesAlong(n int) []domain.WaypointSample {
	out := make([]domain.WaypointSample, n)
	for i := range out {
		out[i] = domain.WaypointSample{
			Point:         domain.CoordinateOf(float64(i), 0),
			Distance:      float64(i) * 1000,
			EstimatedTime: float64(i) * 1800,
		}
	}
	return out
}

func syntheticFallback() *mockWeather {
	return &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			return &domain.WeatherReading{
				Location:    domain.LocationOf(point),
				Description: "light rain",
				Visibility:  8000,
				Severity:    domain.SeverityCaution,
				Source:      domain.SourceSynthetic,
			}, nil
		},
	}
}

func TestWeatherService_OrderAndTiming(t *testing.T) {
	departure := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	var inFlight, peak atomic.Int32
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			// later samples answer first
			time.Sleep(time.Duration(10-point.Lat()) * time.Millisecond)
			ts := at
			return &domain.WeatherReading{
				Location:    domain.LocationOf(point),
				Temperature: point.Lat(),
				Visibility:  10000,
				Description: "clear sky",
				Timestamp:   &ts,
				Source:      domain.SourceOpenWeather,
			}, nil
		},
	}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), nil, nil, 3)

	readings, err := svc.AlongRoute(context.Background(), "route-0", samplesAlong(8), departure, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 8 {
		t.Fatalf("expected 8 readings, got %d", len(readings))
	}
	for i, r := range readings {
		if r.Temperature != float64(i) {
			t.Errorf("reading %d out of order: temperature %v", i, r.Temperature)
		}
		want := departure.Add(time.Duration(i) * 30 * time.Minute)
		if !r.Timestamp.Equal(want) {
			t.Errorf("reading %d requested at %v, want %v", i, r.Timestamp, want)
		}
	}
	if peak.Load() > 3 {
		t.Errorf("concurrency exceeded limit: %d", peak.Load())
	}
}

func TestWeatherService_ForecastSkipsDeparturePoint(t *testing.T) {
	samples := samplesAlong(3)
	var mu sync.Mutex
	forecastAt := map[float64]bool{}
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			mu.Lock()
			forecastAt[point.Lat()] = forecast
			mu.Unlock()
			return &domain.WeatherReading{Location: domain.LocationOf(point), Description: "clear sky", Visibility: 10000}, nil
		},
	}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), nil, nil, 2)

	if _, err := svc.AlongRoute(context.Background(), "route-0", samples, time.Now(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forecastAt[0] {
		t.Error("sample at estimated time 0 should use current weather")
	}
	for _, lat := range []float64{1, 2} {
		if !forecastAt[lat] {
			t.Errorf("sample at lat %v should use the forecast", lat)
		}
	}

	forecastAt = map[float64]bool{}
	if _, err := svc.AlongRoute(context.Background(), "route-0", samples, time.Now(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for lat, f := range forecastAt {
		if f {
			t.Errorf("forecast not requested but sample at lat %v used it", lat)
		}
	}
}

func TestWeatherService_FallbackOnFailure(t *testing.T) {
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			if point.Lat() == 1 {
				return nil, errors.New("upstream 500")
			}
			return &domain.WeatherReading{Location: domain.LocationOf(point), Visibility: 10000, Description: "clear sky"}, nil
		},
	}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), nil, nil, 0)

	readings, err := svc.AlongRoute(context.Background(), "route-0", samplesAlong(3), time.Now(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if readings[1].Source != domain.SourceSynthetic || readings[1].Severity != domain.SeverityCaution {
		t.Errorf("expected synthetic substitute, got %+v", readings[1])
	}
	if readings[0].Source == domain.SourceSynthetic || readings[2].Source == domain.SourceSynthetic {
		t.Error("healthy samples should not be substituted")
	}
}

func TestWeatherService_ClassifiesAndPublishesSevere(t *testing.T) {
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			r := &domain.WeatherReading{Location: domain.LocationOf(point), Visibility: 10000, Description: "clear sky"}
			if point.Lat() == 2 {
				r.Description = "thunderstorm"
				r.Precipitation = 12
			}
			return r, nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), pub, nil, 4)

	readings, err := svc.AlongRoute(context.Background(), "route-7", samplesAlong(3), time.Now(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if readings[0].Severity != domain.SeverityClear || readings[2].Severity != domain.SeveritySevere {
		t.Errorf("unexpected tiers: %v, %v", readings[0].Severity, readings[2].Severity)
	}
	if len(pub.severe) != 1 || pub.severe[0].Description != "thunderstorm" {
		t.Errorf("expected one severe event, got %+v", pub.severe)
	}
}

func TestWeatherService_PublishFailureIgnored(t *testing.T) {
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			return &domain.WeatherReading{Visibility: 500}, nil
		},
	}
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), pub, nil, 1)

	if _, err := svc.AlongRoute(context.Background(), "r", samplesAlong(2), time.Now(), false); err != nil {
		t.Fatalf("publish failure should not fail the lookup: %v", err)
	}
}

func TestWeatherService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			return nil, ctx.Err()
		},
	}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), nil, nil, 2)

	if _, err := svc.AlongRoute(ctx, "r", samplesAlong(4), time.Now(), false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWeatherService_CachesProviderReadings(t *testing.T) {
	var calls atomic.Int32
	provider := &mockWeather{
		readingFn: func(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
			calls.Add(1)
			return &domain.WeatherReading{Location: domain.LocationOf(point), Visibility: 10000, Precipitation: 6}, nil
		},
	}
	svc := usecases.NewWeatherService(provider, syntheticFallback(), nil, newMockCache(), 2)
	departure := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		readings, err := svc.AlongRoute(context.Background(), "r", samplesAlong(2), departure, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if readings[1].Severity != domain.SeverityWarning {
			t.Errorf("cached reading lost its tier: %v", readings[1].Severity)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 provider calls, got %d", calls.Load())
	}
}
