package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-ensemble/internal/metrics"
)

// DefaultTimeout bounds every outbound fetch of a cycle.
const DefaultTimeout = 10 * time.Second

const (
	sourceAirQuality = "airquality"
	sourceAlerts     = "alerts"
)

// Service orchestrates one refresh cycle at a time: fan out to every source,
// wait for all of them, then derive the view-model and replace the latest result.
type Service struct {
	store      Store
	providers  []Provider
	airQuality []AirQualitySource
	alerts     AlertSource
	sink       Sink
	metrics    *metrics.Metrics
	log        *logrus.Logger
	timeout    time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	location Location

	running atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithAirQuality sets the air-quality sources; later ones are fallbacks.
func WithAirQuality(sources ...AirQualitySource) Option {
	return func(s *Service) { s.airQuality = sources }
}

// WithAlerts sets the regional alert source.
func WithAlerts(src AlertSource) Option {
	return func(s *Service) { s.alerts = src }
}

// WithSink publishes every completed cycle.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithMetrics enables Prometheus reporting.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the initial location.
func WithLocation(loc Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService creates a new Service. Providers may be given in any order.
func NewService(store Store, providers []Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		providers: providers,
		log:       logrus.StandardLogger(),
		timeout:   DefaultTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the location refreshes are run for.
func (s *Service) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// SetLocation replaces the location used by subsequent refreshes.
func (s *Service) SetLocation(loc Location) {
	s.mu.Lock()
	s.location = loc
	s.mu.Unlock()
}

// Refresh runs a cycle for the current location.
func (s *Service) Refresh(ctx context.Context) (CycleResult, error) {
	return s.RunCycle(ctx, s.Location())
}

// RunCycle fetches from every source concurrently, waits for all of them to
// settle, and stores the derived CycleResult as the latest one.
//
// Cycles never overlap: while one is running, further calls return
// ErrCycleInProgress and do nothing. When every weather provider fails the
// result is still stored (with air quality and alerts, if those succeeded)
// and ErrNoProvidersAvailable is returned alongside it.
func (s *Service) RunCycle(ctx context.Context, loc Location) (CycleResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.CycleSkipped()
		s.log.Debug("refresh requested while a cycle is running; ignoring")
		return CycleResult{}, ErrCycleInProgress
	}
	defer s.running.Store(false)

	result := CycleResult{
		ID:        uuid.New(),
		Location:  loc,
		StartedAt: s.now().UTC(),
	}
	log := s.log.WithFields(logrus.Fields{
		"cycle_id": result.ID.String(),
		"location": loc.Key(),
	})
	begin := time.Now()

	payloads := make([]RawPayload, len(s.providers))
	outcomes := make([]ProviderOutcome, len(s.providers))
	var (
		aq           *AirQuality
		aqOutcome    ProviderOutcome
		rawAlerts    []RawAlert
		alertOutcome ProviderOutcome
	)

	var g errgroup.Group
	for i, p := range s.providers {
		g.Go(func() error {
			start := time.Now()
			payload, err := withTimeout(ctx, s.timeout, func(ctx context.Context) (RawPayload, error) {
				return p.Fetch(ctx, loc.Coordinates)
			})
			payloads[i] = payload
			outcomes[i] = newOutcome(string(p.ID()), err, time.Since(start))
			return nil
		})
	}
	g.Go(func() error {
		aq, aqOutcome = s.fetchAirQuality(ctx, loc.Coordinates)
		return nil
	})
	g.Go(func() error {
		rawAlerts, alertOutcome = s.fetchAlerts(ctx, loc)
		return nil
	})
	_ = g.Wait()

	var (
		records   []ObservationRecord
		secondary *SecondaryPayload
		tertiary  *TertiaryPayload
	)
	for i, p := range s.providers {
		if outcomes[i].OK {
			rec, err := Normalize(payloads[i])
			if err != nil {
				outcomes[i] = newOutcome(string(p.ID()), err, outcomes[i].Duration)
			} else {
				records = append(records, rec)
				switch payloads[i].Provider {
				case ProviderSecondary:
					secondary = payloads[i].Secondary
				case ProviderTertiary:
					tertiary = payloads[i].Tertiary
				}
			}
		}
		s.report(log, outcomes[i], logrus.WarnLevel)
	}
	s.report(log, aqOutcome, logrus.InfoLevel)
	s.report(log, alertOutcome, logrus.InfoLevel)

	result.Consensus = Aggregate(records)
	result.Hourly = MergeHourly(secondary, tertiary, result.StartedAt)
	result.Daily = MergeDaily(secondary, tertiary, result.StartedAt)
	result.AirQuality = aq
	result.Alerts = FilterAlerts(rawAlerts)
	result.Tips = []string{}
	if result.Consensus != nil {
		result.Tips = DeriveTips(*result.Consensus, aq)
	}
	result.Outcomes = append(outcomes, aqOutcome, alertOutcome)
	result.Unavailable = result.Consensus == nil
	result.CompletedAt = s.now().UTC()

	contributors := 0
	if result.Consensus != nil {
		contributors = len(result.Consensus.ContributingProviders)
	}
	s.metrics.ObserveCycle(time.Since(begin).Seconds(), contributors)

	if s.store != nil {
		s.store.Save(result)
	}
	s.publish(ctx, log, result)

	if result.Unavailable {
		log.Error("weather data unavailable: every provider failed")
		return result, ErrNoProvidersAvailable
	}

	log.WithFields(logrus.Fields{
		"providers":     result.Consensus.ContributingProviders,
		"severe_alerts": len(result.Alerts.Severe),
	}).Info("refresh cycle completed")
	return result, nil
}

// Latest returns the most recent completed cycle.
func (s *Service) Latest() (CycleResult, error) {
	if s.store == nil {
		return CycleResult{}, ErrNoStore
	}
	return s.store.Latest()
}

// fetchAirQuality tries each source in order within a single timeout; the
// first success wins.
// Failure is never surfaced beyond the outcome record.
func (s *Service) fetchAirQuality(ctx context.Context, coords Coordinates) (*AirQuality, ProviderOutcome) {
	start := time.Now()
	if len(s.airQuality) == 0 {
		return nil, ProviderOutcome{Source: sourceAirQuality, OK: true}
	}

	// Primary and fallbacks share one deadline.
	chainCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error
	for _, src := range s.airQuality {
		if chainCtx.Err() != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), ErrTimeout))
			break
		}
		aq, err := withTimeout(chainCtx, s.timeout, func(ctx context.Context) (AirQuality, error) {
			return src.FetchAirQuality(ctx, coords)
		})
		if err == nil {
			return &aq, newOutcome(sourceAirQuality, nil, time.Since(start))
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	return nil, newOutcome(sourceAirQuality, errors.Join(errs...), time.Since(start))
}

// fetchAlerts returns an empty list on any failure.
func (s *Service) fetchAlerts(ctx context.Context, loc Location) ([]RawAlert, ProviderOutcome) {
	start := time.Now()
	if s.alerts == nil {
		return nil, ProviderOutcome{Source: sourceAlerts, OK: true}
	}
	alerts, err := withTimeout(ctx, s.timeout, func(ctx context.Context) ([]RawAlert, error) {
		return s.alerts.FetchAlerts(ctx, loc)
	})
	if err != nil {
		return nil, newOutcome(sourceAlerts, err, time.Since(start))
	}
	return alerts, newOutcome(sourceAlerts, nil, time.Since(start))
}

// report logs and counts one outcome. Malformed payloads are always logged
// at error level since they point at a contract change upstream.
func (s *Service) report(log *logrus.Entry, o ProviderOutcome, failureLevel logrus.Level) {
	if o.OK {
		s.metrics.ObserveFetch(o.Source, "ok")
		log.WithField("source", o.Source).Debug("fetch succeeded")
		return
	}

	s.metrics.ObserveFetch(o.Source, string(o.Kind))
	level := failureLevel
	if o.Kind == FailureMalformed {
		level = logrus.ErrorLevel
	}
	log.WithFields(logrus.Fields{
		"source": o.Source,
		"kind":   o.Kind,
		"error":  o.Error,
	}).Log(level, "fetch failed")
}

// publish is bounded by the fetch timeout so a stalled sink cannot hold
// the cycle guard.
func (s *Service) publish(ctx context.Context, log *logrus.Entry, result CycleResult) {
	if s.sink == nil {
		return
	}
	_, err := withTimeout(ctx, s.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.sink.Publish(ctx, result)
	})
	if err != nil {
		log.WithError(err).Warn("failed to publish cycle result")
	}
}

func newOutcome(source string, err error, d time.Duration) ProviderOutcome {
	o := ProviderOutcome{Source: source, OK: err == nil, Duration: d}
	if err != nil {
		o.Kind = Classify(err)
		o.Error = err.Error()
	}
	return o
}

// withTimeout runs fn and a deadline as siblings; whichever finishes first
// decides the result. A late answer from fn lands in a buffered channel that
// nobody reads, so it can never touch the caller's state.
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type settled struct {
		val T
		err error
	}
	done := make(chan settled, 1)
	go func() {
		v, err := fn(ctx)
		done <- settled{v, err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}
