package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/core/ports"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

type configurable interface {
	Configured() bool
}

// Chain asks each geocoder in turn and returns the first non-empty result.
// Unconfigured geocoders are skipped.
type Chain struct {
	geocoders []ports.Geocoder
}

func NewChain(geocoders ...ports.Geocoder) *Chain {
	return &Chain{geocoders: geocoders}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	var lastErr error
	for _, g := range c.geocoders {
		start := time.Now()
		if cg, ok := g.(configurable); ok && !cg.Configured() {
			metrics.ObserveProvider("geocoding", g.Name(), "skipped", start)
			continue
		}

		places, err := g.Geocode(ctx, query, limit)
		switch {
		case err != nil:
			metrics.ObserveProvider("geocoding", g.Name(), "error", start)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "geocoder failed", "provider", g.Name(), "error", err)
			lastErr = err
		case len(places) == 0:
			metrics.ObserveProvider("geocoding", g.Name(), "empty", start)
		default:
			metrics.ObserveProvider("geocoding", g.Name(), "ok", start)
			return places, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, lastErr)
	}
	return nil, fmt.Errorf("geocode %q: %w", query, domain.ErrNotFound)
}
