package tripweather

import (
	"strings"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
)

// MPSToMPH converts m/s to miles per hour.
const MPSToMPH = 2.237

// rule grades a reading when match reports true. Rules are evaluated in
// table order and the first match wins, so an earlier rule dominates any
// later rule that would also match.
type rule struct {
	name  string
	tier  domain.Severity
	match func(r domain.WeatherReading) bool
}

var rules = []rule{
	{"alerts", domain.SeveritySevere, func(r domain.WeatherReading) bool { return len(r.Alerts) > 0 }},
	{"low_visibility", domain.SeveritySevere, func(r domain.WeatherReading) bool { return r.Visibility < 1000 }},

	{"heavy_precipitation", domain.SeveritySevere, func(r domain.WeatherReading) bool { return r.Precipitation > 10 }},
	{"moderate_precipitation", domain.SeverityWarning, func(r domain.WeatherReading) bool { return r.Precipitation > 5 }},
	{"light_precipitation", domain.SeverityCaution, func(r domain.WeatherReading) bool { return r.Precipitation > 0 }},

	{"high_wind", domain.SeveritySevere, windAbove(40)},
	{"strong_wind", domain.SeverityWarning, windAbove(30)},
	{"breezy", domain.SeverityCaution, windAbove(20)},

	{"storm", domain.SeveritySevere, describes("storm", "tornado", "hurricane")},
	{"snow_or_ice", domain.SeverityWarning, describes("snow", "ice", "blizzard")},
	{"rain", domain.SeverityCaution, describes("rain", "drizzle")},
}

// DefaultRule names the outcome when no rule matches.
const DefaultRule = "default"

// Classify grades a single reading. It is total: every reading maps to a tier.
func Classify(r domain.WeatherReading) domain.Severity {
	tier, _ := Explain(r)
	return tier
}

// Explain is Classify plus the name of the rule that decided the tier.
func Explain(r domain.WeatherReading) (domain.Severity, string) {
	for _, rl := range rules {
		if rl.match(r) {
			return rl.tier, rl.name
		}
	}
	return domain.SeverityClear, DefaultRule
}

func windAbove(mph float64) func(domain.WeatherReading) bool {
	return func(r domain.WeatherReading) bool {
		return r.WindSpeed*MPSToMPH > mph
	}
}

func describes(words ...string) func(domain.WeatherReading) bool {
	return func(r domain.WeatherReading) bool {
		desc := strings.ToLower(r.Description)
		for _, w := range words {
			if strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}
}
