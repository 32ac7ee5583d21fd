package weather

import (
	"math"
	"strconv"
	"time"
)

// TemperatureUnit is the unit used for user-facing temperature formatting.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// Location is a point captured by the location provider.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for logging and indexing.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Latitude, 'f', 4, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', 4, 64)
}

// Wind holds wind speed (m/s) and direction in degrees.
type Wind struct {
	Speed   float64 `json:"speed"`
	Degrees int     `json:"deg"`
}

// Description is a single condition descriptor. The first one on a snapshot is the primary one.
type Description struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Conditions are the core metrics. Temp is Kelvin when it comes from a provider
// and Celsius once it has been cached.
type Conditions struct {
	Temp     float64 `json:"temp"`
	Pressure float64 `json:"pressure"`
	Humidity float64 `json:"humidity"`
}

// Snapshot is a single fetched weather record for a location.
type Snapshot struct {
	Name         string        `json:"name"`
	Location     Location      `json:"location"`
	Wind         Wind          `json:"wind"`
	Descriptions []Description `json:"descriptions"`
	Conditions   Conditions    `json:"conditions"`
	FetchedAt    time.Time     `json:"fetchedAt"` // always UTC
}

// Primary returns the first descriptor, or a zero value when there is none.
func (s Snapshot) Primary() Description {
	if len(s.Descriptions) == 0 {
		return Description{}
	}
	return s.Descriptions[0]
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Descriptions != nil {
		out.Descriptions = make([]Description, len(s.Descriptions))
		copy(out.Descriptions, s.Descriptions)
	}
	return out
}

// WithTemperature returns a copy of the snapshot with Conditions.Temp replaced.
func (s Snapshot) WithTemperature(temp float64) Snapshot {
	out := s.Clone()
	out.Conditions.Temp = temp
	return out
}

// KelvinToCelsius converts and rounds to two decimals.
func KelvinToCelsius(k float64) float64 {
	return math.Round((k-273.15)*100) / 100
}

// CelsiusToKelvin is used by providers that report Celsius natively.
func CelsiusToKelvin(c float64) float64 {
	return c + 273.15
}

// CelsiusToFahrenheit converts for display.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
