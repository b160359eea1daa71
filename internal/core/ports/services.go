package ports

import (
	"context"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTripRequested(ctx context.Context, event *domain.TripRequestedEvent) error
	PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) error
	PublishSevereWeather(ctx context.Context, routeID string, reading *domain.WeatherReading) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeTripRequested(ctx context.Context, handler func(ctx context.Context, event *domain.TripRequestedEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
