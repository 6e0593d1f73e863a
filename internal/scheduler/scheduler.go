package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

const (
	jobTag          = "auto-refresh"
	defaultInterval = 5 * time.Minute
	cycleBudget     = time.Minute
)

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (weather.CycleResult, error)
}

// Scheduler triggers auto-refresh cycles. At most one job exists at a time;
// applying new settings replaces it.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	refresher Refresher
	log       *logrus.Logger
	interval  time.Duration
	settings  weather.Settings
}

// New creates a new Scheduler.
func New(refresher Refresher, log *logrus.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		log:       log,
	}
}

// Start applies the initial settings and starts the underlying scheduler.
func (s *Scheduler) Start(settings weather.Settings) error {
	if err := s.Apply(settings); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Apply cancels any scheduled refresh and, if auto-refresh is on, schedules
// a new one at the configured interval.
func (s *Scheduler) Apply(settings weather.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler.Clear()
	s.interval = 0
	s.settings = settings

	if !settings.AutoRefresh {
		s.log.Info("scheduler: auto-refresh disabled")
		return nil
	}

	interval := settings.RefreshInterval()
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().Tag(jobTag).Do(s.run)
	if err != nil {
		return err
	}
	s.interval = interval
	s.log.WithField("interval", interval.String()).Info("scheduler: auto-refresh scheduled")
	return nil
}

// Interval returns the active auto-refresh interval, or 0 when disabled.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Settings returns the settings last passed to Apply.
func (s *Scheduler) Settings() weather.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	s.log.Debug("scheduler: running auto-refresh")

	ctx, cancel := context.WithTimeout(context.Background(), cycleBudget)
	defer cancel()

	_, err := s.refresher.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, weather.ErrCycleInProgress):
		s.log.Debug("scheduler: previous cycle still running; skipped")
	case errors.Is(err, weather.ErrNoProvidersAvailable):
		// Already reported by the service.
	default:
		s.log.WithError(err).Error("scheduler: refresh failed")
	}
}
