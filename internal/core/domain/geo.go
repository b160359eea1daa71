package domain

// Coordinate is a WGS 84 position in GeoJSON order: [longitude, latitude].
// Route geometry, waypoint samples and segments all use this ordering.
type Coordinate [2]float64

// CoordinateOf builds a Coordinate from latitude/longitude arguments.
func CoordinateOf(lat, lng float64) Coordinate {
	return Coordinate{lng, lat}
}

func (c Coordinate) Lon() float64 { return c[0] }
func (c Coordinate) Lat() float64 { return c[1] }

// Location is a lat-first point with an optional human-readable label.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Coordinate converts the location to lon-first order.
func (l Location) Coordinate() Coordinate {
	return Coordinate{l.Lng, l.Lat}
}

// Valid reports whether the location lies within WGS 84 bounds.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// LocationOf converts a lon-first coordinate back into a Location.
func LocationOf(c Coordinate) Location {
	return Location{Lat: c.Lat(), Lng: c.Lon()}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Place is a single geocoding match.
type Place struct {
	Name      string     `json:"place_name"`
	Center    Coordinate `json:"center"`
	PlaceType []string   `json:"place_type"`
	Address   string     `json:"address,omitempty"`
}

// Location returns the place center as a labelled Location.
func (p Place) Location() Location {
	loc := LocationOf(p.Center)
	loc.Address = p.Name
	return loc
}
