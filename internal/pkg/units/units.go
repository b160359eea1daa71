// Package units converts metric weather and route values into the imperial
// strings shown to drivers.
package units

import (
	"fmt"
	"math"
)

const (
	metersPerMile = 1609.34
	feetPerMeter  = 3.28084
	mphPerMPS     = 2.237
)

// TempUnit selects the temperature scale for FormatTemperature.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
)

func Miles(meters float64) float64 { return meters / metersPerMile }

func MPH(metersPerSecond float64) float64 { return metersPerSecond * mphPerMPS }

func ToFahrenheit(celsius float64) float64 { return celsius*9/5 + 32 }

// FormatDistance renders meters as miles, or feet below a tenth of a mile.
func FormatDistance(meters float64) string {
	if Miles(meters) < 0.1 {
		return fmt.Sprintf("%d ft", round(meters*feetPerMeter))
	}
	return fmt.Sprintf("%.1f mi", Miles(meters))
}

// FormatDuration renders seconds as "2 hr 5 min" or "5 min".
func FormatDuration(seconds float64) string {
	hours := int(math.Floor(seconds / 3600))
	minutes := int(math.Floor(math.Mod(seconds, 3600) / 60))
	if hours > 0 {
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatTemperature renders a Celsius reading in the requested unit.
// Unknown units fall back to Fahrenheit.
func FormatTemperature(celsius float64, unit TempUnit) string {
	if unit == Celsius {
		return fmt.Sprintf("%d°C", round(celsius))
	}
	return fmt.Sprintf("%d°F", round(ToFahrenheit(celsius)))
}

func FormatWindSpeed(metersPerSecond float64) string {
	return fmt.Sprintf("%d mph", round(MPH(metersPerSecond)))
}

func FormatVisibility(meters float64) string {
	return fmt.Sprintf("%.1f mi", Miles(meters))
}

// IconURL returns the OpenWeather image for an icon code such as "10d".
func IconURL(code string) string {
	return "https://openweathermap.org/img/wn/" + code + "@2x.png"
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
