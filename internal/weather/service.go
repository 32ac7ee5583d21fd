package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service is the weather store the home screen talks to: a local cache in front of remote providers.
type Service struct {
	store     Store
	providers []Provider
}

// NewService creates a new Service. Providers are listed in priority order.
func NewService(store Store, providers []Provider) *Service {
	return &Service{
		store:     store,
		providers: providers,
	}
}

// GetWeather returns the cached snapshot, or a fresh one from the providers when forceRemote is set.
// A nil snapshot with a nil error means there was nothing to return.
func (s *Service) GetWeather(ctx context.Context, loc Location, forceRemote bool) (*Snapshot, error) {
	if !forceRemote {
		snap, err := s.store.Cached(ctx)
		if err != nil {
			return nil, fmt.Errorf("read cached weather: %w", err)
		}
		return snap, nil
	}
	return s.fetchRemote(ctx, loc)
}

// DeleteWeatherData drops every cached snapshot.
func (s *Service) DeleteWeatherData(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete cached weather: %w", err)
	}
	return nil
}

// StoreWeatherData caches the snapshot.
func (s *Service) StoreWeatherData(ctx context.Context, snapshot Snapshot) error {
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("store weather: %w", err)
	}
	return nil
}

// fetchRemote queries all providers concurrently and merges the successful readings by priority.
func (s *Service) fetchRemote(ctx context.Context, loc Location) (*Snapshot, error) {
	log.Printf("DEBUG: remote fetch for %s with %d providers", loc.Key(), len(s.providers))
	if len(s.providers) == 0 {
		log.Printf("ERROR: no providers available to fetch weather data for %s", loc.Key())
		return nil, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		readings = make([]*Snapshot, len(s.providers))
		errs     = make([]error, len(s.providers))
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; a lower-priority provider may still answer.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), loc.Key(), err)
				errs[i] = err
				return
			}
			readings[i] = &r
		}(i, p)
	}

	wg.Wait()

	ordered := make([]Snapshot, 0, len(readings))
	for _, r := range readings {
		if r != nil {
			ordered = append(ordered, *r)
		}
	}

	if len(ordered) == 0 {
		if allNoData(errs) {
			log.Printf("INFO: no provider has weather data for %s", loc.Key())
			return nil, nil
		}
		return nil, fmt.Errorf("all providers failed for %s: %w", loc.Key(), errors.Join(errs...))
	}

	snapshot := MergeReadings(loc, ordered)
	return &snapshot, nil
}

func allNoData(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, ErrNoData) {
			return false
		}
	}
	return true
}
