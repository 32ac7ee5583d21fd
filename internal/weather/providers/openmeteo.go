package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/instant-weather/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key; the location name is resolved separately.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	namer   LocationNamer
}

// LocationNamer resolves a display name for a coordinate.
type LocationNamer interface {
	Name(ctx context.Context, loc weather.Location) (string, error)
}

func NewOpenMeteoProvider(client *http.Client, namer LocationNamer) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("openmeteo"),
		namer:   namer,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("current_weather", "true")
		values.Set("windspeed_unit", "ms")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather *struct {
			Temperature   float64 `json:"temperature"`
			WindSpeed     float64 `json:"windspeed"`
			WindDirection float64 `json:"winddirection"`
			Time          string  `json:"time"`
			WeatherCode   int     `json:"weathercode"`
			IsDay         int     `json:"is_day"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, err
	}
	if payload.CurrentWeather == nil {
		return weather.Snapshot{}, weather.ErrNoData
	}
	cw := payload.CurrentWeather

	// Open-Meteo reports GMT times without an offset.
	ts, err := time.Parse("2006-01-02T15:04", cw.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	snap := weather.Snapshot{
		Location: loc,
		Wind: weather.Wind{
			Speed:   cw.WindSpeed,
			Degrees: int(cw.WindDirection),
		},
		Descriptions: []weather.Description{describeOpenMeteoCode(cw.WeatherCode, cw.IsDay == 1)},
		Conditions: weather.Conditions{
			Temp: weather.CelsiusToKelvin(cw.Temperature),
		},
		FetchedAt: ts,
	}

	if p.namer != nil {
		name, err := p.namer.Name(ctx, loc)
		if err != nil {
			// Non-fatal: a higher-priority provider usually carries the name.
			return snap, nil
		}
		snap.Name = name
	}

	return snap, nil
}

// describeOpenMeteoCode maps WMO weather codes onto OpenWeatherMap-style descriptors.
func describeOpenMeteoCode(code int, isDay bool) weather.Description {
	suffix := "n"
	if isDay {
		suffix = "d"
	}
	d := weather.Description{ID: code}
	switch {
	case code == 0:
		d.Main, d.Description, d.Icon = "Clear", "clear sky", "01"+suffix
	case code >= 1 && code <= 3:
		d.Main, d.Description, d.Icon = "Clouds", "partly cloudy", "03"+suffix
	case code == 45 || code == 48:
		d.Main, d.Description, d.Icon = "Mist", "fog", "50"+suffix
	case code >= 51 && code <= 57:
		d.Main, d.Description, d.Icon = "Drizzle", "drizzle", "09"+suffix
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		d.Main, d.Description, d.Icon = "Rain", "rain", "10"+suffix
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		d.Main, d.Description, d.Icon = "Snow", "snow", "13"+suffix
	case code >= 95:
		d.Main, d.Description, d.Icon = "Thunderstorm", "thunderstorm", "11"+suffix
	default:
		d.Main, d.Description = "Unknown", "unknown"
	}
	return d
}
