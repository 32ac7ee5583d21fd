// Package location holds the last known device location and hands it out to one-shot observers.
package location

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/instant-weather/internal/weather"
)

// ErrNoLocation is returned when no location has been published yet.
var ErrNoLocation = errors.New("no known location")

// Tracker is a single-value location holder with one-shot subscriptions.
type Tracker struct {
	mu      sync.Mutex
	latest  *weather.Location
	waiters map[chan weather.Location]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		waiters: make(map[chan weather.Location]struct{}),
	}
}

// Publish records loc as the latest location and delivers it to every pending Once call.
func (t *Tracker) Publish(loc weather.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latest = &loc
	for ch := range t.waiters {
		ch <- loc // buffered, one value per waiter
		delete(t.waiters, ch)
	}
}

// Latest returns the last published location.
func (t *Tracker) Latest() (weather.Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.latest == nil {
		return weather.Location{}, false
	}
	return *t.latest, true
}

// Once returns the current location if one is known, otherwise waits for the next Publish.
// The subscription is dropped after the first value or when ctx is done.
func (t *Tracker) Once(ctx context.Context) (weather.Location, error) {
	t.mu.Lock()
	if t.latest != nil {
		loc := *t.latest
		t.mu.Unlock()
		return loc, nil
	}
	ch := make(chan weather.Location, 1)
	t.waiters[ch] = struct{}{}
	t.mu.Unlock()

	select {
	case loc := <-ch:
		return loc, nil
	case <-ctx.Done():
		t.mu.Lock()
		delete(t.waiters, ch)
		t.mu.Unlock()
		// Publish may have raced with cancellation.
		select {
		case loc := <-ch:
			return loc, nil
		default:
		}
		return weather.Location{}, ctx.Err()
	}
}
