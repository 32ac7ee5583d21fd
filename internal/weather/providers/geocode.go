package providers

import (
	"context"
	"errors"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/instant-weather/internal/weather"
)

var errNoAddress = errors.New("no address for location")

// GoogleNamer resolves location names through the Google reverse geocoding API.
type GoogleNamer struct {
	mu    sync.Mutex
	cache map[string]string
}

// NewGoogleNamer configures the geocoder package with the given API key.
// It returns nil when no key is configured.
func NewGoogleNamer(apiKey string) *GoogleNamer {
	if apiKey == "" {
		return nil
	}
	geocoder.ApiKey = apiKey
	return &GoogleNamer{cache: make(map[string]string)}
}

// Name returns the city (or the formatted address) for loc. Results are memoized per location key.
func (g *GoogleNamer) Name(ctx context.Context, loc weather.Location) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := loc.Key()
	g.mu.Lock()
	if name, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return name, nil
	}
	g.mu.Unlock()

	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	})
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", errNoAddress
	}

	name := addresses[0].City
	if name == "" {
		name = addresses[0].FormattedAddress
	}

	g.mu.Lock()
	g.cache[key] = name
	g.mu.Unlock()

	return name, nil
}
