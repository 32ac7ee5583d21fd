package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/instant-weather/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name           string `json:"name"`
			LocaltimeEpoch int64  `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			Humidity         float64 `json:"humidity"`
			WindKph          float64 `json:"wind_kph"`
			WindDegree       int     `json:"wind_degree"`
			PressureMb       float64 `json:"pressure_mb"`
			Condition        struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, err
	}

	if payload.Current.LastUpdatedEpoch == 0 && payload.Current.Condition.Text == "" {
		return weather.Snapshot{}, weather.ErrNoData
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	var descs []weather.Description
	if text := payload.Current.Condition.Text; text != "" {
		descs = append(descs, weather.Description{
			ID:          payload.Current.Condition.Code,
			Main:        mainCategory(text),
			Description: strings.ToLower(text),
			Icon:        iconCode(payload.Current.Condition.Icon),
		})
	}

	return weather.Snapshot{
		Name:     payload.Location.Name,
		Location: loc,
		Wind: weather.Wind{
			// Convert wind from kph to m/s.
			Speed:   payload.Current.WindKph / 3.6,
			Degrees: payload.Current.WindDegree,
		},
		Descriptions: descs,
		Conditions: weather.Conditions{
			Temp:     weather.CelsiusToKelvin(payload.Current.TempC),
			Pressure: payload.Current.PressureMb,
			Humidity: payload.Current.Humidity,
		},
		FetchedAt: ts,
	}, nil
}

// iconCode strips the CDN path from a WeatherAPI icon URL ("//cdn.../day/116.png" -> "116").
func iconCode(u string) string {
	if u == "" {
		return ""
	}
	return strings.TrimSuffix(path.Base(u), path.Ext(u))
}

// mainCategory maps free text onto the OpenWeatherMap "main" vocabulary.
func mainCategory(text string) string {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ""
	case containsAny(t, "thunder", "storm"):
		return "Thunderstorm"
	case containsAny(t, "drizzle"):
		return "Drizzle"
	case containsAny(t, "rain", "shower"):
		return "Rain"
	case containsAny(t, "snow", "sleet", "blizzard", "ice"):
		return "Snow"
	case containsAny(t, "mist", "fog"):
		return "Mist"
	case containsAny(t, "cloud", "overcast"):
		return "Clouds"
	case containsAny(t, "sunny", "clear"):
		return "Clear"
	default:
		return text
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
