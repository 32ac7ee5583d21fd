package weather

import (
	"context"
	"errors"
)

var (
	// ErrNoData is returned by a provider that answered but has nothing for the location.
	ErrNoData = errors.New("no weather data for location")

	// ErrNoProviders is returned when a remote fetch is requested without any provider configured.
	ErrNoProviders = errors.New("no weather providers configured")
)

// Provider abstracts a remote weather source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// Readings always carry the temperature in Kelvin.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Snapshot, error)
}

// Store is the local cache contract. Cached returns nil, nil on a miss.
type Store interface {
	Cached(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
	DeleteAll(ctx context.Context) error
}
