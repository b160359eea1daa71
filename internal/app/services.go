// Package app wires providers, infrastructure and use cases from config.
// It is shared by the API server, the planner worker and tripctl.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/adapters/geocoding"
	natsadapter "github.com/aboutorca/WeatherNavApp/internal/adapters/nats"
	"github.com/aboutorca/WeatherNavApp/internal/adapters/postgres"
	"github.com/aboutorca/WeatherNavApp/internal/adapters/routing"
	"github.com/aboutorca/WeatherNavApp/internal/adapters/valkey"
	"github.com/aboutorca/WeatherNavApp/internal/adapters/weather"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/config"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/upstream"
)

// Providers holds the upstream adapters selected by config.
type Providers struct {
	Routes   ports.RouteProvider
	Geocoder ports.Geocoder
	Weather  ports.WeatherProvider
	Fallback ports.WeatherProvider
}

// NewProviders builds the provider chains. Providers without credentials are
// skipped at call time, so an empty config still yields straight-line routes
// and synthetic weather.
func NewProviders(cfg *config.Config) Providers {
	client := upstream.NewHTTPClient(cfg.Providers.Timeout())
	p := cfg.Providers

	routeProviders := []ports.RouteProvider{
		routing.NewMapbox(p.MapboxToken, client),
		routing.NewOpenRoute(p.OpenRouteAPIKey, client),
	}
	if cfg.Routing.UseOSRM {
		routeProviders = append(routeProviders, routing.NewOSRM(p.OSRMURL, client))
	}

	synthetic := weather.NewSynthetic()
	var primary ports.WeatherProvider = synthetic
	if p.OpenWeatherAPIKey != "" {
		primary = weather.NewOpenWeather(p.OpenWeatherAPIKey, client)
	}

	return Providers{
		Routes: routing.NewChain(routing.NewStraight(cfg.Routing.StraightLinePoints), routeProviders...),
		Geocoder: geocoding.NewChain(
			geocoding.NewMapbox(p.MapboxToken, client),
			geocoding.NewNominatim(p.NominatimUserAgent, client),
		),
		Weather:  primary,
		Fallback: synthetic,
	}
}

// Infra is the optional backing infrastructure. Any field may be nil.
type Infra struct {
	DB     *postgres.DB
	Cache  *valkey.Cache
	Events *natsadapter.Publisher
}

// Connect dials each configured backend. Failures are logged and leave the
// field nil; the services degrade to uncached, unpersisted operation.
func Connect(ctx context.Context, cfg *config.Config) *Infra {
	infra := &Infra{}

	if cfg.Database.Enabled {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		db, err := postgres.New(dialCtx, cfg.Database.DSN())
		cancel()
		if err != nil {
			slog.Warn("postgres unavailable, place store disabled", "error", err)
		} else {
			infra.DB = db
		}
	}

	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		infra.Cache = cache
	}

	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		infra.Events = pub
	}

	return infra
}

// Close releases every connected backend.
func (i *Infra) Close() {
	if i.Events != nil {
		i.Events.Close()
	}
	if i.Cache != nil {
		i.Cache.Close()
	}
	if i.DB != nil {
		i.DB.Close()
	}
}

// Services bundles the use cases.
type Services struct {
	Geocode *usecases.GeocodeService
	Routes  *usecases.RouteService
	Weather *usecases.WeatherService
	Trips   *usecases.TripService
}

// NewServices wires use cases over providers and whatever infra is present.
// infra may be nil.
func NewServices(cfg *config.Config, p Providers, infra *Infra) *Services {
	// Interfaces stay nil unless the backend is connected; a typed nil
	// pointer would defeat the nil checks in the use cases.
	var (
		places ports.PlaceRepository
		cache  ports.CacheService
		events ports.EventPublisher
	)
	if infra != nil {
		if infra.DB != nil {
			places = postgres.NewPlaceRepo(infra.DB)
		}
		if infra.Cache != nil {
			cache = infra.Cache
		}
		if infra.Events != nil {
			events = infra.Events
		}
	}

	routes := usecases.NewRouteService(p.Routes, cache)
	weatherSvc := usecases.NewWeatherService(p.Weather, p.Fallback, events, cache, cfg.Weather.MaxConcurrency)
	return &Services{
		Geocode: usecases.NewGeocodeService(p.Geocoder, places, cache),
		Routes:  routes,
		Weather: weatherSvc,
		Trips:   usecases.NewTripService(routes, weatherSvc, events),
	}
}
