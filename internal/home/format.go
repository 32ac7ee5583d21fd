package home

import (
	"fmt"
	"time"

	"github.com/i474232898/instant-weather/internal/weather"
)

// TimestampLayout renders e.g. "Thursday Jul 27, 11:21 PM".
const TimestampLayout = "Monday Jan 2, 03:04 PM"

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatTemperature formats a Celsius value in the display unit.
func FormatTemperature(celsius float64, unit weather.TemperatureUnit) string {
	if unit == weather.Fahrenheit {
		return fmt.Sprintf("%.1f°F", weather.CelsiusToFahrenheit(celsius))
	}
	return fmt.Sprintf("%.1f°C", celsius)
}

func FormatHumidity(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

func FormatPressure(hpa float64) string {
	return fmt.Sprintf("%.0f hPa", hpa)
}

func FormatWindSpeed(ms float64) string {
	return fmt.Sprintf("%.1f m/s", ms)
}

// View is the display-ready form of a UiState.
type View struct {
	Status      Status                  `json:"status"`
	Location    string                  `json:"location,omitempty"`
	Main        string                  `json:"main,omitempty"`
	Description string                  `json:"description,omitempty"`
	Icon        string                  `json:"icon,omitempty"`
	Temperature string                  `json:"temperature,omitempty"`
	Humidity    string                  `json:"humidity,omitempty"`
	Pressure    string                  `json:"pressure,omitempty"`
	WindSpeed   string                  `json:"windSpeed,omitempty"`
	Unit        weather.TemperatureUnit `json:"unit,omitempty"`
	Time        string                  `json:"time,omitempty"`
}

// Present builds the View for s.
func Present(s UiState) View {
	v := View{Status: s.Status}
	if s.Status != StatusSuccess || s.Weather == nil {
		return v
	}

	w := s.Weather
	primary := w.Primary()

	v.Location = w.Name
	v.Main = primary.Main
	v.Description = primary.Description
	v.Icon = primary.Icon
	v.Temperature = FormatTemperature(w.Conditions.Temp, s.Unit)
	v.Humidity = FormatHumidity(w.Conditions.Humidity)
	v.Pressure = FormatPressure(w.Conditions.Pressure)
	v.WindSpeed = FormatWindSpeed(w.Wind.Speed)
	v.Unit = s.Unit
	v.Time = s.Time
	return v
}
