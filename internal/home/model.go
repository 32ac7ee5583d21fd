// Package home implements the home screen: a view-state machine that loads the weather for the
// current location, plus the presentation helpers that turn its state into display strings.
package home

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/i474232898/instant-weather/internal/weather"
)

// WeatherStore is the cached-or-remote weather source.
type WeatherStore interface {
	GetWeather(ctx context.Context, loc weather.Location, forceRemote bool) (*weather.Snapshot, error)
	DeleteWeatherData(ctx context.Context) error
	StoreWeatherData(ctx context.Context, snapshot weather.Snapshot) error
}

// UnitResolver resolves the display unit for a refresh.
type UnitResolver interface {
	DisplayUnit(ctx context.Context) weather.TemperatureUnit
}

// LocationSource exposes the last known location.
type LocationSource interface {
	Latest() (weather.Location, bool)
}

// Model drives the home screen state: Loading, then exactly one of Success or Error.
//
// Every GetWeather/RefreshWeather call starts a task in the model's scope and supersedes the
// previous one: the older task is cancelled and anything it publishes afterwards is dropped.
type Model struct {
	store     WeatherStore
	units     UnitResolver
	locations LocationSource
	state     *StateCell
	now       func() time.Time

	scope       context.Context
	cancelScope context.CancelFunc

	mu        sync.Mutex
	gen       uint64
	cancelRun context.CancelFunc
	wg        sync.WaitGroup
}

// NewModel creates a Model in the Loading state.
func NewModel(store WeatherStore, units UnitResolver, locations LocationSource) *Model {
	scope, cancel := context.WithCancel(context.Background())
	return &Model{
		store:       store,
		units:       units,
		locations:   locations,
		state:       NewStateCell(LoadingState()),
		now:         time.Now,
		scope:       scope,
		cancelScope: cancel,
	}
}

// State returns the latest published state.
func (m *Model) State() UiState {
	return m.state.Get()
}

// Subscribe streams state updates until ctx is done or unsubscribe is called.
func (m *Model) Subscribe(ctx context.Context) (<-chan UiState, func()) {
	return m.state.Subscribe(ctx)
}

// GetWeather shows the cached weather, falling back to a forced refresh on a cache miss.
func (m *Model) GetWeather(loc weather.Location) {
	m.launch(func(ctx context.Context, gen uint64) {
		m.getWeather(ctx, gen, loc)
	})
}

// RefreshWeather fetches fresh weather, converts it to Celsius and replaces the cache.
func (m *Model) RefreshWeather(loc weather.Location) {
	m.launch(func(ctx context.Context, gen uint64) {
		m.refreshWeather(ctx, gen, loc)
	})
}

// OnPullToRefresh refreshes the last known location. Without one it does nothing.
func (m *Model) OnPullToRefresh() {
	loc, ok := m.locations.Latest()
	if !ok {
		log.Println("home: pull to refresh ignored, no known location")
		return
	}
	m.RefreshWeather(loc)
}

// Wait blocks until no task is running.
func (m *Model) Wait() {
	m.wg.Wait()
}

// Close cancels the running task and rejects new ones.
func (m *Model) Close() {
	m.cancelScope()
	m.wg.Wait()
}

func (m *Model) launch(run func(ctx context.Context, gen uint64)) {
	m.mu.Lock()
	if m.scope.Err() != nil {
		m.mu.Unlock()
		return
	}
	if m.cancelRun != nil {
		m.cancelRun()
	}
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(m.scope)
	m.cancelRun = cancel
	m.state.Set(LoadingState())
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()
		run(ctx, gen)
	}()
}

// publish writes s unless the task has been superseded or cancelled.
func (m *Model) publish(ctx context.Context, gen uint64, s UiState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || ctx.Err() != nil {
		log.Printf("DEBUG: home: dropping %s state from superseded task %d", s.Status, gen)
		return
	}
	m.state.Set(s)
}

func (m *Model) getWeather(ctx context.Context, gen uint64, loc weather.Location) {
	unit := m.units.DisplayUnit(ctx)

	snap, err := m.store.GetWeather(ctx, loc, false)
	if err != nil {
		log.Printf("ERROR: home: cached weather for %s: %v", loc.Key(), err)
		m.publish(ctx, gen, ErrorState())
		return
	}
	if snap == nil {
		log.Printf("INFO: home: no cached weather for %s, refreshing", loc.Key())
		m.refreshWeather(ctx, gen, loc)
		return
	}

	m.publish(ctx, gen, SuccessState(*snap, unit, FormatTimestamp(m.now())))
}

func (m *Model) refreshWeather(ctx context.Context, gen uint64, loc weather.Location) {
	unit := m.units.DisplayUnit(ctx)

	snap, err := m.store.GetWeather(ctx, loc, true)
	if err != nil {
		log.Printf("ERROR: home: refresh weather for %s: %v", loc.Key(), err)
		m.publish(ctx, gen, ErrorState())
		return
	}
	if snap == nil {
		log.Printf("ERROR: home: refresh weather for %s returned no data", loc.Key())
		m.publish(ctx, gen, ErrorState())
		return
	}

	// Upstream reports Kelvin; the cache holds Celsius.
	converted := snap.WithTemperature(weather.KelvinToCelsius(snap.Conditions.Temp))

	if err := m.store.DeleteWeatherData(ctx); err != nil {
		log.Printf("ERROR: home: clear cached weather: %v", err)
	}
	if err := m.store.StoreWeatherData(ctx, converted); err != nil {
		log.Printf("ERROR: home: cache weather for %s: %v", loc.Key(), err)
	}

	m.publish(ctx, gen, SuccessState(converted, unit, FormatTimestamp(m.now())))
}
