package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/instant-weather/internal/weather"
)

type recordingRefresher struct {
	locs []weather.Location
}

func (r *recordingRefresher) RefreshWeather(loc weather.Location) {
	r.locs = append(r.locs, loc)
}

type stubLocations struct {
	loc weather.Location
	err error
}

func (s stubLocations) SavedLocation(context.Context) (weather.Location, error) {
	return s.loc, s.err
}

type stubNetwork bool

func (n stubNetwork) Online(context.Context) bool { return bool(n) }

var berlin = weather.Location{Latitude: 52.52, Longitude: 13.405}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		locations stubLocations
		network   Connectivity
		wantCalls int
	}{
		{
			name:      "refreshes saved location",
			locations: stubLocations{loc: berlin},
			network:   stubNetwork(true),
			wantCalls: 1,
		},
		{
			name:      "no connectivity check configured",
			locations: stubLocations{loc: berlin},
			wantCalls: 1,
		},
		{
			name:      "offline",
			locations: stubLocations{loc: berlin},
			network:   stubNetwork(false),
			wantCalls: 0,
		},
		{
			name:      "no saved location",
			locations: stubLocations{err: errors.New("not found")},
			network:   stubNetwork(true),
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRefresher{}
			s := New(time.Hour, r, tt.locations, tt.network)
			s.run()

			if len(r.locs) != tt.wantCalls {
				t.Fatalf("expected %d refreshes, got %d", tt.wantCalls, len(r.locs))
			}
			if tt.wantCalls == 1 && r.locs[0] != berlin {
				t.Errorf("refreshed %v, want %v", r.locs[0], berlin)
			}
		})
	}
}

func TestScheduleReplacesExistingJob(t *testing.T) {
	s := New(time.Hour, &recordingRefresher{}, stubLocations{loc: berlin}, nil)
	defer s.Stop()

	for i := 0; i < 3; i++ {
		if err := s.Schedule(); err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
	}

	if n := len(s.scheduler.Jobs()); n != 1 {
		t.Fatalf("expected exactly one job, got %d", n)
	}
	tags := s.scheduler.Jobs()[0].Tags()
	if len(tags) != 1 || tags[0] != JobTag {
		t.Errorf("unexpected job tags %v", tags)
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(0, &recordingRefresher{}, stubLocations{}, nil)
	if s.interval != DefaultInterval {
		t.Fatalf("expected default interval %s, got %s", DefaultInterval, s.interval)
	}
}
