package routing

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

// Mapbox implements ports.RouteProvider with the Mapbox Directions API.
type Mapbox struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewMapbox(token string, client *http.Client) *Mapbox {
	return &Mapbox{token: token, baseURL: mapboxBaseURL, client: client}
}

// WithBaseURL points the client at another host, e.g. a test server.
func (m *Mapbox) WithBaseURL(u string) *Mapbox {
	m.baseURL = u
	return m
}

func (m *Mapbox) Name() string     { return "mapbox" }
func (m *Mapbox) Configured() bool { return m.token != "" }

type mapboxResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates []domain.Coordinate `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Instruction string `json:"instruction"`
					Type        string `json:"type"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (m *Mapbox) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	params := url.Values{}
	params.Set("access_token", m.token)
	params.Set("geometries", "geojson")
	params.Set("overview", "full")
	params.Set("steps", "true")
	params.Set("alternatives", strconv.FormatBool(alternatives))

	u := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s;%s?%s",
		m.baseURL, lngLat(origin), lngLat(destination), params.Encode())

	var resp mapboxResponse
	if err := upstream.GetJSON(ctx, m.client, m.Name(), u, nil, &resp); err != nil {
		return nil, err
	}

	routes := make([]domain.Route, 0, len(resp.Routes))
	for i, r := range resp.Routes {
		route := domain.Route{
			ID:          routeID(i),
			Origin:      origin,
			Destination: destination,
			Distance:    r.Distance,
			Duration:    r.Duration,
			Geometry:    r.Geometry.Coordinates,
			Provider:    m.Name(),
		}
		if len(r.Legs) > 0 {
			for _, s := range r.Legs[0].Steps {
				route.Instructions = append(route.Instructions, domain.RouteInstruction{
					Text:     s.Maneuver.Instruction,
					Distance: s.Distance,
					Duration: s.Duration,
					Type:     s.Maneuver.Type,
				})
			}
		}
		if len(route.Geometry) == 0 {
			continue
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// lngLat formats a location as the "lng,lat" path element routers expect.
func lngLat(l domain.Location) string {
	return strconv.FormatFloat(l.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lat, 'f', -1, 64)
}

func routeID(i int) string {
	return "route-" + strconv.Itoa(i)
}
