package http

import (
	"github.com/nats-io/nats.go"

	"github.com/aboutorca/WeatherNavApp/internal/adapters/postgres"
	"github.com/aboutorca/WeatherNavApp/internal/adapters/valkey"
	"github.com/aboutorca/WeatherNavApp/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. Infrastructure
// fields may be nil when the service runs without them.
type Dependencies struct {
	Geocode *usecases.GeocodeService
	Routes  *usecases.RouteService
	Weather *usecases.WeatherService
	Trips   *usecases.TripService
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache
}
