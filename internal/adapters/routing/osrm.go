package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/upstream"
)

// OSRM implements ports.RouteProvider against an OSRM server. The public
// demo server needs no key, so it sits between the keyed providers and the
// straight-line fallback.
type OSRM struct {
	baseURL string
	client  *http.Client
}

func NewOSRM(baseURL string, client *http.Client) *OSRM {
	return &OSRM{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (o *OSRM) Name() string     { return "osrm" }
func (o *OSRM) Configured() bool { return o.baseURL != "" }

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates []domain.Coordinate `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Name     string  `json:"name"`
				Maneuver struct {
					Type     string `json:"type"`
					Modifier string `json:"modifier"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (o *OSRM) Directions(ctx context.Context, origin, destination domain.Location, alternatives bool) ([]domain.Route, error) {
	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")
	params.Set("steps", "true")
	params.Set("alternatives", strconv.FormatBool(alternatives))

	u := fmt.Sprintf("%s/route/v1/driving/%s;%s?%s",
		o.baseURL, lngLat(origin), lngLat(destination), params.Encode())

	var resp osrmResponse
	if err := upstream.GetJSON(ctx, o.client, o.Name(), u, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "Ok" {
		if resp.Code == "NoRoute" {
			return nil, nil
		}
		return nil, errors.New("osrm: " + resp.Code + " " + resp.Message)
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
			Provider:    o.Name(),
		}
		if len(r.Legs) > 0 {
			for _, s := range r.Legs[0].Steps {
				route.Instructions = append(route.Instructions, domain.RouteInstruction{
					Text:     osrmInstruction(s.Maneuver.Type, s.Maneuver.Modifier, s.Name),
					Distance: s.Distance,
					Duration: s.Duration,
					Type:     s.Maneuver.Type,
				})
			}
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// osrmInstruction renders a maneuver as text; OSRM returns none itself.
func osrmInstruction(typ, modifier, road string) string {
	var verb string
	switch typ {
	case "depart":
		verb = "Head"
		modifier = ""
	case "arrive":
		return "Arrive at destination"
	case "turn", "end of road":
		verb = "Turn"
	case "merge":
		verb = "Merge"
	case "fork":
		verb = "Keep"
	case "on ramp":
		verb = "Take the ramp"
	case "off ramp":
		verb = "Take the exit"
	case "roundabout", "rotary":
		verb = "Enter the roundabout"
		modifier = ""
	default:
		verb = "Continue"
	}

	text := verb
	if modifier != "" {
		text += " " + modifier
	}
	if road != "" {
		text += " onto " + road
	}
	return text
}
