package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/upstream"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim implements ports.Geocoder with OpenStreetMap's Nominatim. It
// needs no key but its usage policy requires an identifying User-Agent.
type Nominatim struct {
	userAgent string
	baseURL   string
	client    *http.Client
}

func NewNominatim(userAgent string, client *http.Client) *Nominatim {
	return &Nominatim{userAgent: userAgent, baseURL: nominatimBaseURL, client: client}
}

func (n *Nominatim) WithBaseURL(u string) *Nominatim {
	n.baseURL = u
	return n
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
}

func (n *Nominatim) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	header := http.Header{}
	header.Set("User-Agent", n.userAgent)

	var results []nominatimResult
	if err := upstream.GetJSON(ctx, n.client, n.Name(), n.baseURL+"/search?"+params.Encode(), header, &results); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim lat %q: %w", r.Lat, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim lon %q: %w", r.Lon, err)
		}
		placeType := r.Type
		if placeType == "" {
			placeType = "place"
		}
		places = append(places, domain.Place{
			Name:      r.DisplayName,
			Center:    domain.CoordinateOf(lat, lon),
			PlaceType: []string{placeType},
			Address:   r.DisplayName,
		})
	}
	return places, nil
}
