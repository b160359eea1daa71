package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/twpayne/go-polyline"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/upstream"
)

const openRouteBaseURL = "https://api.openrouteservice.org"

// OpenRoute implements ports.RouteProvider with OpenRouteService.
type OpenRoute struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenRoute(apiKey string, client *http.Client) *OpenRoute {
	return &OpenRoute{apiKey: apiKey, baseURL: openRouteBaseURL, client: client}
}

func (o *OpenRoute) WithBaseURL(u string) *OpenRoute {
	o.baseURL = u
	return o
}

func (o *OpenRoute) Name() string     { return "openroute" }
func (o *OpenRoute) Configured() bool { return o.apiKey != "" }

type openRouteRequest struct {
	Coordinates       []domain.Coordinate `json:"coordinates"`
	AlternativeRoutes *openRouteAltParam  `json:"alternative_routes,omitempty"`
}

type openRouteAltParam struct {
	TargetCount int `json:"target_count"`
}

type openRouteResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry json.RawMessage `json:"geometry"`
		Segments []struct {
			Steps []struct {
				Instruction string  `json:"instruction"`
				Distance    float64 `json:"distance"`
				Duration    float64 `json:"duration"`
				Type        int     `json:"type"`
			} `json:"steps"`
		} `json:"segments"`
	} `json:"routes"`
}

func (o *OpenRoute) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	body := openRouteRequest{
		Coordinates: []domain.Coordinate{origin.Coordinate(), destination.Coordinate()},
	}
	if alternatives {
		body.AlternativeRoutes = &openRouteAltParam{TargetCount: 2}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v2/directions/driving-car", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp openRouteResponse
	if err := upstream.Do(o.client, o.Name(), req, &resp); err != nil {
		return nil, err
	}

	routes := make([]domain.Route, 0, len(resp.Routes))
	for i, r := range resp.Routes {
		geometry, err := decodeORSGeometry(r.Geometry)
		if err != nil {
			return nil, fmt.Errorf("openroute route %d: %w", i, err)
		}
		route := domain.Route{
			ID:          routeID(i),
			Origin:      origin,
			Destination: destination,
			Distance:    r.Summary.Distance,
			Duration:    r.Summary.Duration,
			Geometry:    geometry,
			Provider:    o.Name(),
		}
		if len(r.Segments) > 0 {
			for _, s := range r.Segments[0].Steps {
				route.Instructions = append(route.Instructions, domain.RouteInstruction{
					Text:     s.Instruction,
					Distance: s.Distance,
					Duration: s.Duration,
					Type:     strconv.Itoa(s.Type),
				})
			}
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// decodeORSGeometry accepts the three shapes ORS may return: an encoded
// polyline string, a GeoJSON geometry object, or a bare coordinate array.
func decodeORSGeometry(raw json.RawMessage) ([]domain.Coordinate, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("missing geometry")
	}

	switch raw[0] {
	case '"':
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		return DecodePolyline(encoded)
	case '{':
		var g struct {
			Coordinates []domain.Coordinate `json:"coordinates"`
		}
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, err
		}
		return g.Coordinates, nil
	default:
		var coords []domain.Coordinate
		if err := json.Unmarshal(raw, &coords); err != nil {
			return nil, err
		}
		return coords, nil
	}
}

// DecodePolyline decodes a precision-5 encoded polyline into lon-first
// coordinates. The encoding itself is lat-first.
func DecodePolyline(encoded string) ([]domain.Coordinate, error) {
	latLngs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	coords := make([]domain.Coordinate, len(latLngs))
	for i, ll := range latLngs {
		coords[i] = domain.CoordinateOf(ll[0], ll[1])
	}
	return coords, nil
}
