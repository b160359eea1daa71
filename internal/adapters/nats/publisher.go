package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

// Subjects
const (
	SubjectRequests = "weathernav.requests"
	SubjectTrips    = "weathernav.trips"
	SubjectAlerts   = "weathernav.alerts"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "TRIP_REQUESTS",
			Subjects:  []string{SubjectRequests + ".>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "TRIP_PLANS",
			Subjects:  []string{SubjectTrips + ".>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "WEATHER_ALERTS",
			Subjects:  []string{SubjectAlerts + ".>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishTripRequested(ctx context.Context, event *domain.TripRequestedEvent) error {
	return p.publish(ctx, "trip_requested", SubjectRequests+"."+event.TripID, event)
}

func (p *Publisher) PublishTripPlanned(ctx context.Context, plan *domain.TripPlan) error {
	event := domain.NewTripPlannedEvent(plan)
	return p.publish(ctx, "trip_planned", SubjectTrips+"."+plan.ID, &event)
}

func (p *Publisher) PublishSevereWeather(ctx context.Context, routeID string, reading *domain.WeatherReading) error {
	event := domain.SevereWeatherEvent{
		RouteID:     routeID,
		Location:    reading.Location,
		Severity:    reading.Severity,
		Description: reading.Description,
		ValidAt:     reading.Timestamp,
		Alerts:      len(reading.Alerts),
	}
	return p.publish(ctx, "severe_weather", SubjectAlerts+"."+reading.Severity.String(), &event)
}

func (p *Publisher) publish(ctx context.Context, name, subject string, event any) error {
	data, err := Encode(event)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(name, "error").Inc()
		return err
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		metrics.EventsPublished.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	metrics.EventsPublished.WithLabelValues(name, "ok").Inc()
	return nil
}

// Conn exposes the underlying connection for plain subscriptions.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
