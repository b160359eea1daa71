package weather

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

type condition struct {
	description   string
	icon          string
	precipitation float64
	windSpeed     float64
	visibility    float64
	severity      domain.Severity
}

var conditions = [4]condition{
	{"clear sky", "01d", 0, 3, 10000, domain.SeverityClear},
	{"light rain", "10d", 2, 5, 8000, domain.SeverityCaution},
	{"heavy rain", "09d", 8, 8, 5000, domain.SeverityWarning},
	{"thunderstorm", "11d", 15, 12, 2000, domain.SeveritySevere},
}

// Synthetic generates plausible readings without any upstream. Output is a
// pure function of the point and the hour of at: the condition is picked by
// |lat+lng| mod 4 and the remaining fields come from a PRNG seeded with the
// point and that hour. Readings arrive pre-graded with the condition's tier.
type Synthetic struct{}

func NewSynthetic() *Synthetic { return &Synthetic{} }

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Reading(_ context.Context, point domain.Coordinate, at time.Time, _ bool) (*domain.WeatherReading, error) {
	return Synthesize(point, at), nil
}

// Synthesize is the provider's generator, exposed for callers that need a
// substitute reading without going through the port.
func Synthesize(point domain.Coordinate, at time.Time) *domain.WeatherReading {
	lat, lng := point.Lat(), point.Lon()
	c := conditions[conditionIndex(lat, lng)]

	hour := at.UTC().Truncate(time.Hour)
	rng := rand.New(rand.NewPCG(seed(lat, lng, hour.Unix()), 0x5eed))

	ts := at.UTC()
	return &domain.WeatherReading{
		Location:      domain.LocationOf(point),
		Temperature:   20 + rng.Float64()*10,
		FeelsLike:     22 + rng.Float64()*8,
		Humidity:      40 + rng.Float64()*40,
		WindSpeed:     c.windSpeed + rng.Float64()*3,
		WindDirection: rng.Float64() * 360,
		Visibility:    c.visibility,
		Description:   c.description,
		Icon:          c.icon,
		Precipitation: c.precipitation,
		Severity:      c.severity,
		Timestamp:     &ts,
		Source:        domain.SourceSynthetic,
	}
}

func conditionIndex(lat, lng float64) int {
	i := math.Floor(math.Mod(math.Abs(lat+lng), 4))
	if math.IsNaN(i) || i < 0 || i > 3 {
		return 0
	}
	return int(i)
}

func seed(lat, lng float64, hour int64) uint64 {
	h := fnv.New64a()
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(lat))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(lng))
	binary.LittleEndian.PutUint64(buf[16:], uint64(hour))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
