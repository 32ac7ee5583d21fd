package home

import (
	"context"
	"fmt"
	"log"

	"github.com/i474232898/instant-weather/internal/weather"
)

// LocationObserver hands out a single location per call.
type LocationObserver interface {
	Once(ctx context.Context) (weather.Location, error)
}

// LocationSaver persists the location for background refreshes.
type LocationSaver interface {
	SaveLocation(ctx context.Context, loc weather.Location) error
}

// RefreshScheduler (re)installs the periodic refresh.
type RefreshScheduler interface {
	Schedule() error
}

// Screen wires the first known location into the model, the preferences and the scheduler.
type Screen struct {
	model     *Model
	locations LocationObserver
	saver     LocationSaver
	scheduler RefreshScheduler
}

func NewScreen(model *Model, locations LocationObserver, saver LocationSaver, scheduler RefreshScheduler) *Screen {
	return &Screen{
		model:     model,
		locations: locations,
		saver:     saver,
		scheduler: scheduler,
	}
}

// Start waits for the first location, loads the weather for it, saves it and schedules background refreshes.
func (s *Screen) Start(ctx context.Context) error {
	loc, err := s.locations.Once(ctx)
	if err != nil {
		return fmt.Errorf("wait for location: %w", err)
	}
	log.Printf("INFO: home: got location %s", loc.Key())

	s.model.GetWeather(loc)

	if err := s.saver.SaveLocation(ctx, loc); err != nil {
		log.Printf("ERROR: home: save location: %v", err)
	}
	if s.scheduler != nil {
		if err := s.scheduler.Schedule(); err != nil {
			return fmt.Errorf("schedule weather refresh: %w", err)
		}
	}
	return nil
}
