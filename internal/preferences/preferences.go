// Package preferences resolves user preferences persisted by the store.
package preferences

import (
	"context"
	"log"

	"github.com/i474232898/instant-weather/internal/weather"
)

// FahrenheitValue is the stored value that selects Fahrenheit. Anything else means Celsius.
const FahrenheitValue = "fahrenheit"

// Reader reads the raw persisted unit preference.
type Reader interface {
	SelectedTemperatureUnit(ctx context.Context) (string, error)
}

// ResolveDisplayUnit maps a raw preference value to a display unit.
func ResolveDisplayUnit(raw string) weather.TemperatureUnit {
	if raw == FahrenheitValue {
		return weather.Fahrenheit
	}
	return weather.Celsius
}

// Resolver resolves the display unit from an injected Reader.
type Resolver struct {
	reader Reader
}

func NewResolver(reader Reader) *Resolver {
	return &Resolver{reader: reader}
}

// DisplayUnit never fails: read errors resolve to Celsius like an unset value.
func (r *Resolver) DisplayUnit(ctx context.Context) weather.TemperatureUnit {
	raw, err := r.reader.SelectedTemperatureUnit(ctx)
	if err != nil {
		log.Printf("ERROR: preferences: read temperature unit: %v", err)
		return weather.Celsius
	}
	return ResolveDisplayUnit(raw)
}
