package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Bounds returns the extent of a lon-first polyline. ok is false for an
// empty path.
func Bounds(path [][2]float64) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	if len(path) == 0 {
		return 0, 0, 0, 0, false
	}
	minLon, minLat = path[0][0], path[0][1]
	maxLon, maxLat = minLon, minLat
	for _, p := range path[1:] {
		minLon = math.Min(minLon, p[0])
		maxLon = math.Max(maxLon, p[0])
		minLat = math.Min(minLat, p[1])
		maxLat = math.Max(maxLat, p[1])
	}
	return minLat, minLon, maxLat, maxLon, true
}

// Interpolate returns steps+1 lon-first points evenly spaced on the straight
// line from (lat1, lon1) to (lat2, lon2), endpoints included.
func Interpolate(lat1, lon1, lat2, lon2 float64, steps int) [][2]float64 {
	if steps < 1 {
		steps = 1
	}
	out := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		out = append(out, [2]float64{lon1 + (lon2-lon1)*t, lat1 + (lat2-lat1)*t})
	}
	return out
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
