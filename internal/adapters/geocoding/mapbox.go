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

const mapboxBaseURL = "https://api.mapbox.com"

// Mapbox implements ports.Geocoder with the Mapbox places endpoint.
type Mapbox struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewMapbox(token string, client *http.Client) *Mapbox {
	return &Mapbox{token: token, baseURL: mapboxBaseURL, client: client}
}

func (m *Mapbox) WithBaseURL(u string) *Mapbox {
	m.baseURL = u
	return m
}

func (m *Mapbox) Name() string     { return "mapbox" }
func (m *Mapbox) Configured() bool { return m.token != "" }

type mapboxFeatures struct {
	Features []struct {
		PlaceName  string            `json:"place_name"`
		Center     domain.Coordinate `json:"center"`
		PlaceType  []string          `json:"place_type"`
		Address    string            `json:"address"`
		Properties struct {
			Address string `json:"address"`
		} `json:"properties"`
	} `json:"features"`
}

func (m *Mapbox) Geocode(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("access_token", m.token)
	params.Set("limit", strconv.Itoa(limit))

	u := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", m.baseURL, url.PathEscape(query), params.Encode())

	var resp mapboxFeatures
	if err := upstream.GetJSON(ctx, m.client, m.Name(), u, nil, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		addr := f.Properties.Address
		if addr == "" {
			addr = f.Address
		}
		places = append(places, domain.Place{
			Name:      f.PlaceName,
			Center:    f.Center,
			PlaceType: f.PlaceType,
			Address:   addr,
		})
	}
	return places, nil
}
