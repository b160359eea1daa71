package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// PlaceRepo implements ports.PlaceRepository with pgx. Results are keyed by
// the normalized query text and kept in provider order.
type PlaceRepo struct {
	db *DB
}

func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

// NormalizeQuery folds case and whitespace so equivalent searches share rows.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Upsert replaces the stored results for query.
func (r *PlaceRepo) Upsert(ctx context.Context, query string, places []domain.Place) error {
	key := NormalizeQuery(query)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM places WHERE query = $1`, key); err != nil {
		return fmt.Errorf("clear places: %w", err)
	}

	batch := &pgx.Batch{}
	for i, p := range places {
		batch.Queue(`
			INSERT INTO places (query, rank, name, lon, lat, place_type, address)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, key, i, p.Name, p.Center.Lon(), p.Center.Lat(), p.PlaceType, p.Address)
	}
	br := tx.SendBatch(ctx, batch)
	for range places {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}

	return tx.Commit(ctx)
}

// Search returns stored results for query, best first.
func (r *PlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, lon, lat, COALESCE(place_type, '{}'), COALESCE(address, '')
		FROM places
		WHERE query = $1
		ORDER BY rank
		LIMIT $2
	`, NormalizeQuery(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		var lon, lat float64
		if err := rows.Scan(&p.Name, &lon, &lat, &p.PlaceType, &p.Address); err != nil {
			return nil, err
		}
		p.Center = domain.Coordinate{lon, lat}
		places = append(places, p)
	}
	return places, rows.Err()
}
