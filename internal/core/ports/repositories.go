package ports

import (
	"context"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// PlaceRepository stores geocoding results so repeated searches do not hit
// the upstream geocoders. Trips themselves are never stored.
type PlaceRepository interface {
	Upsert(ctx context.Context, query string, places []domain.Place) error
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}
