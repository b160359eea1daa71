package routing

import (
	"context"
	"log/slog"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

// configurable is implemented by providers that need credentials.
type configurable interface {
	Configured() bool
}

// Chain tries each provider in order and returns the first non-empty
// answer. When every provider fails or is unconfigured it asks the
// fallback, which must not fail.
type Chain struct {
	providers []ports.RouteProvider
	fallback  ports.RouteProvider
}

func NewChain(fallback ports.RouteProvider, providers ...ports.RouteProvider) *Chain {
	return &Chain{providers: providers, fallback: fallback}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	for _, p := range c.providers {
		start := time.Now()
		if cp, ok := p.(configurable); ok && !cp.Configured() {
			metrics.ObserveProvider("routing", p.Name(), "skipped", start)
			continue
		}

		routes, err := p.Directions(ctx, origin, destination, alternatives)
		switch {
		case err != nil:
			metrics.ObserveProvider("routing", p.Name(), "error", start)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "routing provider failed", "provider", p.Name(), "error", err)
		case len(routes) == 0:
			metrics.ObserveProvider("routing", p.Name(), "empty", start)
			slog.InfoContext(ctx, "routing provider found no route", "provider", p.Name())
		default:
			metrics.ObserveProvider("routing", p.Name(), "ok", start)
			return routes, nil
		}
	}

	metrics.SyntheticFallbacks.WithLabelValues("route").Inc()
	slog.InfoContext(ctx, "using fallback route", "provider", c.fallback.Name())
	return c.fallback.Directions(ctx, origin, destination, alternatives)
}
