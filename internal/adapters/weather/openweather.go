package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aboutorca/WeatherNavApp/internal/core/domain"
	"github.com/aboutorca/WeatherNavApp/internal/pkg/upstream"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org"

	defaultVisibility = 10000.0
)

// OpenWeather implements ports.WeatherProvider with the OpenWeatherMap 2.5
// current-conditions and 5-day/3-hour forecast endpoints.
type OpenWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewOpenWeather(apiKey string, client *http.Client) *OpenWeather {
	return &OpenWeather{apiKey: apiKey, baseURL: openWeatherBaseURL, client: client, now: time.Now}
}

func (o *OpenWeather) WithBaseURL(u string) *OpenWeather {
	o.baseURL = u
	return o
}

func (o *OpenWeather) Name() string     { return "openweather" }
func (o *OpenWeather) Configured() bool { return o.apiKey != "" }

// owmItem is shared by the current endpoint and each forecast list entry.
type owmItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"`
	Weather    []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Rain map[string]float64 `json:"rain"`
}

type owmForecast struct {
	List []owmItem `json:"list"`
}

// Reading fetches current conditions, or with forecast set, the forecast
// entry whose timestamp is closest to at.
func (o *OpenWeather) Reading(ctx context.Context, point domain.Coordinate, at time.Time, forecast bool) (*domain.WeatherReading, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat(), 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lon(), 'f', -1, 64))
	params.Set("appid", o.apiKey)
	params.Set("units", "metric")

	var item owmItem
	if forecast {
		var fc owmForecast
		if err := upstream.GetJSON(ctx, o.client, o.Name(), o.baseURL+"/data/2.5/forecast?"+params.Encode(), nil, &fc); err != nil {
			return nil, err
		}
		closest, err := closestEntry(fc.List, at)
		if err != nil {
			return nil, err
		}
		item = closest
	} else {
		if err := upstream.GetJSON(ctx, o.client, o.Name(), o.baseURL+"/data/2.5/weather?"+params.Encode(), nil, &item); err != nil {
			return nil, err
		}
	}

	if len(item.Weather) == 0 {
		return nil, errors.New("openweather: response has no weather conditions")
	}
	return toReading(point, item), nil
}

// closestEntry picks the entry whose dt is nearest target; ties keep the
// earlier entry.
func closestEntry(list []owmItem, target time.Time) (owmItem, error) {
	if len(list) == 0 {
		return owmItem{}, fmt.Errorf("openweather forecast: %w", domain.ErrNotFound)
	}
	best := list[0]
	bestDiff := math.Abs(float64(best.Dt - target.Unix()))
	for _, it := range list[1:] {
		if d := math.Abs(float64(it.Dt - target.Unix())); d < bestDiff {
			best, bestDiff = it, d
		}
	}
	return best, nil
}

func toReading(point domain.Coordinate, it owmItem) *domain.WeatherReading {
	visibility := defaultVisibility
	if it.Visibility != nil && *it.Visibility > 0 {
		visibility = *it.Visibility
	}

	precip := it.Rain["1h"]
	if precip == 0 {
		precip = it.Rain["3h"]
	}

	ts := time.Unix(it.Dt, 0).UTC()
	return &domain.WeatherReading{
		Location:      domain.LocationOf(point),
		Temperature:   it.Main.Temp,
		FeelsLike:     it.Main.FeelsLike,
		Humidity:      it.Main.Humidity,
		WindSpeed:     it.Wind.Speed,
		WindDirection: it.Wind.Deg,
		Visibility:    visibility,
		Description:   it.Weather[0].Description,
		Icon:          it.Weather[0].Icon,
		Precipitation: precip,
		Timestamp:     &ts,
		Source:        domain.SourceOpenWeather,
	}
}
