package home

import (
	"testing"
	"time"

	"github.com/i474232898/instant-weather/internal/weather"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "late evening",
			input:    time.Date(2023, time.July, 27, 23, 21, 0, 0, time.UTC),
			expected: "Thursday Jul 27, 11:21 PM",
		},
		{
			name:     "morning pads the hour",
			input:    time.Date(2024, time.January, 5, 9, 7, 0, 0, time.UTC),
			expected: "Friday Jan 5, 09:07 AM",
		},
		{
			name:     "noon",
			input:    time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
			expected: "Sunday Mar 10, 12:00 PM",
		},
		{
			name:     "midnight",
			input:    time.Date(2024, time.March, 10, 0, 30, 0, 0, time.UTC),
			expected: "Sunday Mar 10, 12:30 AM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.expected {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		name     string
		celsius  float64
		unit     weather.TemperatureUnit
		expected string
	}{
		{"celsius", 19.28, weather.Celsius, "19.3°C"},
		{"fahrenheit", 27.0, weather.Fahrenheit, "80.6°F"},
		{"freezing in fahrenheit", 0, weather.Fahrenheit, "32.0°F"},
		{"unknown unit falls back to celsius", 10, weather.TemperatureUnit("kelvin"), "10.0°C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTemperature(tt.celsius, tt.unit); got != tt.expected {
				t.Errorf("FormatTemperature(%v, %q) = %q, want %q", tt.celsius, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestPresentSuccess(t *testing.T) {
	st := SuccessState(*sampleSnapshot(19.28), weather.Celsius, "Thursday Jul 27, 11:21 PM")

	v := Present(st)
	want := View{
		Status:      StatusSuccess,
		Location:    "London",
		Main:        "Clouds",
		Description: "broken clouds",
		Icon:        "04n",
		Temperature: "19.3°C",
		Humidity:    "89%",
		Pressure:    "1001 hPa",
		WindSpeed:   "2.0 m/s",
		Unit:        weather.Celsius,
		Time:        "Thursday Jul 27, 11:21 PM",
	}
	if v != want {
		t.Fatalf("Present() = %+v, want %+v", v, want)
	}

	// Formatting the same input twice gives the same output.
	if again := Present(st); again != v {
		t.Errorf("Present is not idempotent: %+v vs %+v", again, v)
	}
}

func TestPresentNonSuccess(t *testing.T) {
	for _, st := range []UiState{LoadingState(), ErrorState()} {
		if v := Present(st); v != (View{Status: st.Status}) {
			t.Errorf("Present(%q) = %+v, want only the status", st.Status, v)
		}
	}
}

func TestPresentWithoutDescriptions(t *testing.T) {
	snap := sampleSnapshot(5)
	snap.Descriptions = nil

	v := Present(SuccessState(*snap, weather.Celsius, "t"))
	if v.Main != "" || v.Icon != "" {
		t.Errorf("expected empty primary description, got %+v", v)
	}
}
