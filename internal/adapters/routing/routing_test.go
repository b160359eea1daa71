package routing_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aboutorca/WeatherNavApp/internal/adapters/routing"
	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

var (
	bilbao = domain.Location{Lat: 43.263, Lng: -2.935, Address: "Bilbao"}
	madrid = domain.Location{Lat: 40.4168, Lng: -3.7038, Address: "Madrid"}
)

func TestMapbox_Directions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/directions/v5/mapbox/driving/-2.935,43.263;-3.7038,40.4168") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("access_token") != "tok" || q.Get("geometries") != "geojson" || q.Get("alternatives") != "true" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[
			{"distance":395000,"duration":14400,
			 "geometry":{"coordinates":[[-2.935,43.263],[-3.2,42.0],[-3.7038,40.4168]]},
			 "legs":[{"steps":[
				{"distance":100,"duration":20,"maneuver":{"instruction":"Head south","type":"depart"}},
				{"distance":0,"duration":0,"maneuver":{"instruction":"You have arrived","type":"arrive"}}]}]},
			{"distance":410000,"duration":15000,
			 "geometry":{"coordinates":[[-2.935,43.263],[-3.7038,40.4168]]},"legs":[]}]}`)
	}))
	defer srv.Close()

	routes, err := routing.NewMapbox("tok", srv.Client()).WithBaseURL(srv.URL).
		Directions(context.Background(), bilbao, madrid, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	r := routes[0]
	if r.ID != "route-0" || routes[1].ID != "route-1" {
		t.Errorf("ids = %s, %s", r.ID, routes[1].ID)
	}
	if r.Distance != 395000 || r.Duration != 14400 || r.Provider != "mapbox" {
		t.Errorf("unexpected route: %+v", r)
	}
	if r.Geometry[0] != (domain.Coordinate{-2.935, 43.263}) {
		t.Errorf("geometry not lon-first: %v", r.Geometry[0])
	}
	if len(r.Instructions) != 2 || r.Instructions[0].Text != "Head south" || r.Instructions[1].Type != "arrive" {
		t.Errorf("unexpected instructions: %+v", r.Instructions)
	}
	if r.Origin != bilbao || r.Destination != madrid {
		t.Errorf("endpoints not carried through: %+v %+v", r.Origin, r.Destination)
	}
}

func TestOpenRoute_EncodedPolyline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/directions/driving-car" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "ors-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		alt, ok := body["alternative_routes"].(map[string]any)
		if !ok || alt["target_count"] != float64(2) {
			t.Errorf("alternative_routes = %v", body["alternative_routes"])
		}
		coords := body["coordinates"].([]any)
		if first := coords[0].([]any); first[0] != -2.935 || first[1] != 43.263 {
			t.Errorf("coordinates not lon-first: %v", coords)
		}

		_, _ = io.WriteString(w, `{"routes":[{
			"summary":{"distance":1000,"duration":120},
			"geometry":"_p~iF~ps|U_ulLnnqC_mqNvxq`+"`"+`@",
			"segments":[{"steps":[{"instruction":"Head north","distance":10,"duration":2,"type":11}]}]}]}`)
	}))
	defer srv.Close()

	routes, err := routing.NewOpenRoute("ors-key", srv.Client()).WithBaseURL(srv.URL).
		Directions(context.Background(), bilbao, madrid, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	r := routes[0]
	want := []domain.Coordinate{{-120.2, 38.5}, {-120.95, 40.7}, {-126.453, 43.252}}
	if len(r.Geometry) != len(want) {
		t.Fatalf("geometry = %v", r.Geometry)
	}
	for i := range want {
		if math.Abs(r.Geometry[i][0]-want[i][0]) > 1e-9 || math.Abs(r.Geometry[i][1]-want[i][1]) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, r.Geometry[i], want[i])
		}
	}
	if r.Instructions[0].Type != "11" || r.Distance != 1000 {
		t.Errorf("unexpected route %+v", r)
	}
}

func TestOpenRoute_GeoJSONGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, present := body["alternative_routes"]; present {
			t.Error("alternative_routes sent without alternatives")
		}
		_, _ = io.WriteString(w, `{"routes":[{"summary":{"distance":5,"duration":1},
			"geometry":{"type":"LineString","coordinates":[[1,2],[3,4]]},"segments":[]}]}`)
	}))
	defer srv.Close()

	routes, err := routing.NewOpenRoute("k", srv.Client()).WithBaseURL(srv.URL).
		Directions(context.Background(), bilbao, madrid, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := routes[0].Geometry; len(got) != 2 || got[1] != (domain.Coordinate{3, 4}) {
		t.Errorf("geometry = %v", got)
	}
}

func TestOSRM_Directions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":395500,"duration":14000,
			"geometry":{"coordinates":[[-2.935,43.263],[-3.7038,40.4168]]},
			"legs":[{"steps":[
				{"distance":50,"duration":5,"name":"Gran Via","maneuver":{"type":"depart","modifier":"left"}},
				{"distance":900,"duration":60,"name":"A-1","maneuver":{"type":"turn","modifier":"right"}},
				{"distance":0,"duration":0,"name":"","maneuver":{"type":"arrive"}}]}]}]}`)
	}))
	defer srv.Close()

	routes, err := routing.NewOSRM(srv.URL+"/", srv.Client()).Directions(context.Background(), bilbao, madrid, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{}
	for _, in := range routes[0].Instructions {
		got = append(got, in.Text)
	}
	want := []string{"Head onto Gran Via", "Turn right onto A-1", "Arrive at destination"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("instructions = %q, want %q", got, want)
	}
}

func TestOSRM_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"InvalidUrl","message":"bad"}`)
	}))
	defer srv.Close()

	if _, err := routing.NewOSRM(srv.URL, srv.Client()).Directions(context.Background(), bilbao, madrid, false); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestStraight_Directions(t *testing.T) {
	routes, err := routing.NewStraight(10).Directions(context.Background(), bilbao, madrid, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected a single route, got %d", len(routes))
	}
	r := routes[0]
	if r.ID != routing.StraightRouteID || r.Duration != 3600 {
		t.Errorf("unexpected route %+v", r)
	}
	if len(r.Geometry) != 11 {
		t.Errorf("expected 11 geometry points, got %d", len(r.Geometry))
	}
	if r.Geometry[0] != bilbao.Coordinate() || r.Geometry[10] != madrid.Coordinate() {
		t.Errorf("endpoints = %v .. %v", r.Geometry[0], r.Geometry[10])
	}
	if math.Abs(r.Distance-323000) > 2000 {
		t.Errorf("distance = %.0f, want ~323 km", r.Distance)
	}
	if len(r.Instructions) != 2 || r.Instructions[0].Type != "depart" || r.Instructions[1].Type != "arrive" {
		t.Errorf("instructions = %+v", r.Instructions)
	}
}

type stubProvider struct {
	name       string
	configured bool
	routes     []domain.Route
	err        error
	calls      int
}

func (s *stubProvider) Name() string     { return s.name }
func (s *stubProvider) Configured() bool { return s.configured }
func (s *stubProvider) Directions(context.Context, domain.Location, domain.Location, bool) ([]domain.Route, error) {
	s.calls++
	return s.routes, s.err
}

func TestChain_Order(t *testing.T) {
	unconfigured := &stubProvider{name: "mapbox"}
	failing := &stubProvider{name: "openroute", configured: true, err: errors.New("502")}
	empty := &stubProvider{name: "osrm", configured: true}
	fallback := routing.NewStraight(4)

	routes, err := routing.NewChain(fallback, unconfigured, failing, empty).
		Directions(context.Background(), bilbao, madrid, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unconfigured.calls != 0 {
		t.Error("unconfigured provider was called")
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Errorf("calls = %d, %d", failing.calls, empty.calls)
	}
	if routes[0].Provider != "straight" || len(routes[0].Geometry) != 5 {
		t.Errorf("expected straight fallback, got %+v", routes[0])
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &stubProvider{name: "a", configured: true, routes: []domain.Route{{ID: "route-0", Provider: "a"}}}
	second := &stubProvider{name: "b", configured: true, routes: []domain.Route{{ID: "route-0", Provider: "b"}}}

	routes, err := routing.NewChain(routing.NewStraight(10), first, second).
		Directions(context.Background(), bilbao, madrid, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if routes[0].Provider != "a" || second.calls != 0 {
		t.Errorf("expected first provider only, got %+v (second calls %d)", routes[0], second.calls)
	}
}

func TestChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	failing := &stubProvider{name: "a", configured: true, err: context.Canceled}

	if _, err := routing.NewChain(routing.NewStraight(10), failing).Directions(ctx, bilbao, madrid, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
