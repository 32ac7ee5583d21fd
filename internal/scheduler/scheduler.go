package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/instant-weather/internal/weather"
)

// JobTag names the periodic refresh. Scheduling again replaces the job with this tag.
const JobTag = "update-weather-worker"

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 6 * time.Hour

// Refresher is the forced-refresh entry point the job invokes.
type Refresher interface {
	RefreshWeather(loc weather.Location)
}

// LocationStore returns the location saved by the home screen.
type LocationStore interface {
	SavedLocation(ctx context.Context) (weather.Location, error)
}

// Connectivity reports whether the network is usable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Scheduler periodically refreshes the weather for the saved location.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	refresher Refresher
	locations LocationStore
	network   Connectivity
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. network may be nil to skip the connectivity check.
func New(interval time.Duration, refresher Refresher, locations LocationStore, network Connectivity) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		locations: locations,
		network:   network,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start starts the underlying scheduler. Jobs are added by Schedule.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Schedule installs the refresh job, replacing any job with the same tag.
// The first run happens one interval from now.
func (s *Scheduler) Schedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Nothing to remove on the first call.
	_ = s.scheduler.RemoveByTag(JobTag)

	_, err := s.scheduler.Every(s.interval).
		Tag(JobTag).
		SingletonMode().
		WaitForSchedule().
		Do(s.run)
	if err != nil {
		return err
	}

	log.Printf("scheduler: weather refresh scheduled every %s", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	log.Println("scheduler: running weather refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.network != nil && !s.network.Online(ctx) {
		log.Println("scheduler: offline; skipping weather refresh")
		return
	}

	loc, err := s.locations.SavedLocation(ctx)
	if err != nil {
		log.Printf("scheduler: no saved location; skipping weather refresh: %v", err)
		return
	}

	s.refresher.RefreshWeather(loc)
	log.Printf("scheduler: weather refresh triggered for %s", loc.Key())
}
