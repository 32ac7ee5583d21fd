package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/instant-weather/internal/home"
	"github.com/i474232898/instant-weather/internal/location"
	"github.com/i474232898/instant-weather/internal/preferences"
	"github.com/i474232898/instant-weather/internal/store"
	"github.com/i474232898/instant-weather/internal/weather"
)

type testEnv struct {
	app     *fiber.App
	model   *home.Model
	tracker *location.Tracker
	store   *store.MemoryStore
}

func newTestEnv(t *testing.T, providers []weather.Provider) *testEnv {
	t.Helper()

	mem := store.NewMemoryStore()
	tracker := location.NewTracker()
	resolver := preferences.NewResolver(mem)
	model := home.NewModel(weather.NewService(mem, providers), resolver, tracker)
	t.Cleanup(model.Close)

	app := fiber.New()
	RegisterRoutes(app, Deps{
		Model:     model,
		Locations: tracker,
		Units:     mem,
		Resolver:  resolver,
	})

	return &testEnv{app: app, model: model, tracker: tracker, store: mem}
}

type stubProvider struct {
	snap weather.Snapshot
}

func (p stubProvider) Name() string { return "stub" }

func (p stubProvider) Fetch(_ context.Context, loc weather.Location) (weather.Snapshot, error) {
	s := p.snap.Clone()
	s.Location = loc
	return s, nil
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func decodeView(t *testing.T, resp *http.Response) home.View {
	t.Helper()
	defer resp.Body.Close()

	var v home.View
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

// TestLocationValidation verifies that the location endpoint enforces coordinate ranges.
func TestLocationValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{}`, http.StatusBadRequest},
		{"latitude out of range", `{"latitude": 91, "longitude": 0}`, http.StatusBadRequest},
		{"longitude out of range", `{"latitude": 0, "longitude": -181}`, http.StatusBadRequest},
		{"not json", `latitude=1`, http.StatusBadRequest},
		{"equator is valid", `{"latitude": 0, "longitude": 0}`, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, env.app, http.MethodPost, "/api/v1/location", tt.body)
			if resp.StatusCode != tt.code {
				t.Fatalf("expected status %d, got %d", tt.code, resp.StatusCode)
			}
		})
	}

	if loc, ok := env.tracker.Latest(); !ok || loc != (weather.Location{}) {
		t.Errorf("expected the valid location to be published, got %v, %v", loc, ok)
	}
}

func TestPullToRefreshWithoutLocation(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/weather/refresh", "")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
	if v := decodeView(t, resp); v.Status != home.StatusLoading {
		t.Errorf("expected untouched loading state, got %q", v.Status)
	}
}

func TestPullToRefreshShowsWeather(t *testing.T) {
	env := newTestEnv(t, []weather.Provider{stubProvider{snap: weather.Snapshot{
		Name:         "Lagos",
		Descriptions: []weather.Description{{Main: "Clear", Description: "clear sky", Icon: "01d"}},
		Conditions:   weather.Conditions{Temp: 300.15, Pressure: 1012, Humidity: 78},
		Wind:         weather.Wind{Speed: 3.09},
	}}})

	resp := doJSON(t, env.app, http.MethodPut, "/api/v1/preferences/temperature-unit", `{"unit": "fahrenheit"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/location", `{"latitude": 6.5244, "longitude": 3.3792}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}

	doJSON(t, env.app, http.MethodPost, "/api/v1/weather/refresh", "")
	env.model.Wait()

	v := decodeView(t, doJSON(t, env.app, http.MethodGet, "/api/v1/weather", ""))
	if v.Status != home.StatusSuccess {
		t.Fatalf("expected success, got %q", v.Status)
	}
	if v.Location != "Lagos" || v.Temperature != "80.6°F" || v.Humidity != "78%" {
		t.Errorf("unexpected view %+v", v)
	}

	cached, _ := env.store.Cached(context.Background())
	if cached == nil || cached.Conditions.Temp != 27 {
		t.Errorf("expected Celsius snapshot in cache, got %+v", cached)
	}
}

func TestTemperatureUnitPreference(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := doJSON(t, env.app, http.MethodPut, "/api/v1/preferences/temperature-unit", `{"unit": "kelvin"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/preferences/temperature-unit", "")
	var got unitResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Unit != weather.Celsius {
		t.Errorf("expected default celsius, got %q", got.Unit)
	}
}
