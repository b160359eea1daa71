package domain

import (
	"time"
)

// Route is a driving route returned by a routing provider.
type Route struct {
	ID           string             `json:"id"`
	Origin       Location           `json:"origin"`
	Destination  Location           `json:"destination"`
	Distance     float64            `json:"distance"` // meters
	Duration     float64            `json:"duration"` // seconds
	Geometry     []Coordinate       `json:"geometry"`
	Instructions []RouteInstruction `json:"instructions,omitempty"`
	Provider     string             `json:"provider,omitempty"`
}

// RouteInstruction is one turn-by-turn step.
type RouteInstruction struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Type     string  `json:"type"`
}

// WaypointSample is a point along a route where weather is queried.
type WaypointSample struct {
	Point         Coordinate `json:"point"`
	Distance      float64    `json:"distance"`       // meters from route start
	EstimatedTime float64    `json:"estimated_time"` // seconds from route start
}

// Reading sources.
const (
	SourceOpenWeather = "openweather"
	SourceSynthetic   = "synthetic"
)

// WeatherReading is the weather at one waypoint sample.
type WeatherReading struct {
	Location      Location       `json:"location"`
	Temperature   float64        `json:"temperature"` // °C
	FeelsLike     float64        `json:"feels_like"`  // °C
	Humidity      float64        `json:"humidity"`    // %
	WindSpeed     float64        `json:"wind_speed"`  // m/s
	WindDirection float64        `json:"wind_direction"`
	Visibility    float64        `json:"visibility"` // meters
	Description   string         `json:"description"`
	Icon          string         `json:"icon"`
	Precipitation float64        `json:"precipitation"` // mm/h
	Severity      Severity       `json:"severity"`
	Alerts        []WeatherAlert `json:"alerts,omitempty"`
	Timestamp     *time.Time     `json:"timestamp,omitempty"`
	Source        string         `json:"source,omitempty"`
}

// WeatherAlert is an official weather warning attached to a reading.
type WeatherAlert struct {
	Event       string    `json:"event"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
}

// RouteSegment is a slice of route geometry colored by weather severity.
type RouteSegment struct {
	Coordinates []Coordinate `json:"coordinates"`
	Severity    Severity     `json:"severity"`
	Color       string       `json:"color"`
}

// GeoJSONFeature is a minimal GeoJSON LineString feature.
type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   GeoJSONGeometry `json:"geometry"`
}

type GeoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates []Coordinate `json:"coordinates"`
}

// GeoJSON renders the segment as a LineString feature for map overlays.
func (s RouteSegment) GeoJSON() GeoJSONFeature {
	return GeoJSONFeature{
		Type: "Feature",
		Properties: map[string]any{
			"severity": s.Severity.String(),
			"color":    s.Color,
		},
		Geometry: GeoJSONGeometry{Type: "LineString", Coordinates: s.Coordinates},
	}
}

// GeoJSONFeatureCollection is a GeoJSON FeatureCollection.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// SegmentsGeoJSON renders a colored route as one feature per segment.
func SegmentsGeoJSON(segments []RouteSegment) GeoJSONFeatureCollection {
	features := make([]GeoJSONFeature, len(segments))
	for i, s := range segments {
		features[i] = s.GeoJSON()
	}
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}
}

// TripSummary aggregates the weather readings of one trip.
type TripSummary struct {
	WorstSeverity    Severity `json:"worst_severity"`
	WorstDescription string   `json:"worst_description"`
	TempMin          float64  `json:"temp_min"`
	TempMax          float64  `json:"temp_max"`
	TempAvg          float64  `json:"temp_avg"`
	MaxPrecipitation float64  `json:"max_precipitation"`
	MaxWind          float64  `json:"max_wind"`
	AlertCount       int      `json:"alert_count"`
}

// TripPlan is the full result of planning one trip. It is never stored.
type TripPlan struct {
	ID            string           `json:"id"`
	Origin        Location         `json:"origin"`
	Destination   Location         `json:"destination"`
	DepartureTime time.Time        `json:"departure_time"`
	Route         Route            `json:"route"`
	Alternatives  []Route          `json:"alternatives,omitempty"`
	Samples       []WaypointSample `json:"samples"`
	Weather       []WeatherReading `json:"weather"`
	Segments      []RouteSegment   `json:"segments"`
	Summary       TripSummary      `json:"summary"`
	Bounds        *Bounds          `json:"bounds,omitempty"` // route extent, for map fitting
	PlannedAt     time.Time        `json:"planned_at"`
}
