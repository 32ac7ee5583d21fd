package home

import (
	"context"
	"sync"

	"github.com/i474232898/instant-weather/internal/weather"
)

// Status tags a UiState.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// UiState is what the home screen renders. Weather, Unit and Time are set only on success.
type UiState struct {
	Status  Status                  `json:"status"`
	Weather *weather.Snapshot       `json:"weather,omitempty"`
	Unit    weather.TemperatureUnit `json:"unit,omitempty"`
	Time    string                  `json:"time,omitempty"`
}

func LoadingState() UiState {
	return UiState{Status: StatusLoading}
}

func ErrorState() UiState {
	return UiState{Status: StatusError}
}

func SuccessState(snapshot weather.Snapshot, unit weather.TemperatureUnit, formattedTime string) UiState {
	snap := snapshot.Clone()
	return UiState{
		Status:  StatusSuccess,
		Weather: &snap,
		Unit:    unit,
		Time:    formattedTime,
	}
}

// StateCell publishes the latest UiState. It has one writer (the Model) and any number of readers.
type StateCell struct {
	mu    sync.RWMutex
	value UiState
	subs  map[chan UiState]struct{}
}

func NewStateCell(initial UiState) *StateCell {
	return &StateCell{
		value: initial,
		subs:  make(map[chan UiState]struct{}),
	}
}

// Get returns the latest published state.
func (c *StateCell) Get() UiState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set publishes v. Slow subscribers only ever see the most recent value.
func (c *StateCell) Set(v UiState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe returns a channel that receives the current state and every later one.
// The channel is closed when ctx is done or unsubscribe is called, whichever comes first.
func (c *StateCell) Subscribe(ctx context.Context) (updates <-chan UiState, unsubscribe func()) {
	ch := make(chan UiState, 1)
	done := make(chan struct{})

	c.mu.Lock()
	ch <- c.value
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()

	var once sync.Once
	return ch, func() { once.Do(func() { close(done) }) }
}

// subscribers reports how many subscriptions are registered.
func (c *StateCell) subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
