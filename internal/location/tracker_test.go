package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/instant-weather/internal/weather"
)

func TestTrackerLatest(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.Latest(); ok {
		t.Fatalf("expected no location on a new tracker")
	}

	loc := weather.Location{Latitude: 51.5, Longitude: -0.12}
	tr.Publish(loc)

	got, ok := tr.Latest()
	if !ok || got != loc {
		t.Fatalf("Latest() = %v, %v; want %v, true", got, ok, loc)
	}
}

func TestTrackerOnceReturnsKnownLocation(t *testing.T) {
	tr := NewTracker()
	loc := weather.Location{Latitude: 6.5, Longitude: 3.4}
	tr.Publish(loc)

	got, err := tr.Once(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != loc {
		t.Fatalf("Once() = %v, want %v", got, loc)
	}
}

func TestTrackerOnceWaitsForPublish(t *testing.T) {
	tr := NewTracker()
	loc := weather.Location{Latitude: 40.7, Longitude: -74.0}

	done := make(chan weather.Location, 1)
	go func() {
		got, err := tr.Once(context.Background())
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		done <- got
	}()

	// Wait for the waiter to register before publishing.
	deadline := time.Now().Add(time.Second)
	for {
		tr.mu.Lock()
		n := len(tr.waiters)
		tr.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("waiter never registered")
		}
		time.Sleep(time.Millisecond)
	}

	tr.Publish(loc)

	select {
	case got := <-done:
		if got != loc {
			t.Fatalf("Once() = %v, want %v", got, loc)
		}
	case <-time.After(time.Second):
		t.Fatalf("Once() did not return after Publish")
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.waiters) != 0 {
		t.Fatalf("expected subscription to be dropped, %d waiters left", len(tr.waiters))
	}
}

func TestTrackerOnceCancelled(t *testing.T) {
	tr := NewTracker()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.Once(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.waiters) != 0 {
		t.Fatalf("expected cancelled waiter to be removed")
	}
}
