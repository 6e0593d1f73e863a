package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-ensemble/internal/config"
	"github.com/i474232898/weather-ensemble/internal/logging"
	"github.com/i474232898/weather-ensemble/internal/metrics"
	"github.com/i474232898/weather-ensemble/internal/publish"
	"github.com/i474232898/weather-ensemble/internal/store"
	"github.com/i474232898/weather-ensemble/internal/weather"
	"github.com/i474232898/weather-ensemble/internal/weather/providers"
)

// app holds everything both commands need.
type app struct {
	cfg      *config.AppConfig
	log      *logrus.Logger
	registry *prometheus.Registry
	store    *store.MemoryStore
	service  *weather.Service
	sink     *publish.KafkaSink
}

func build() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	mem, err := store.NewMemoryStore(cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	// Shared HTTP client for outbound provider calls; the per-fetch deadline
	// comes from the service.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	opts := func(apiKey string) providers.Options {
		return providers.Options{
			Client:    httpClient,
			APIKey:    apiKey,
			RateLimit: cfg.ProviderRateLimit,
			UserAgent: cfg.NWSUserAgent,
		}
	}

	provs := []weather.Provider{
		providers.NewOpenWeatherProvider(opts(cfg.OpenWeatherAPIKey)),
		providers.NewWeatherAPIProvider(opts(cfg.WeatherAPIKey)),
		providers.NewOpenMeteoProvider(opts("")),
	}

	svcOpts := []weather.Option{
		weather.WithLogger(log),
		weather.WithMetrics(m),
		weather.WithTimeout(cfg.HTTPTimeout),
		weather.WithLocation(cfg.Location),
		weather.WithAirQuality(
			providers.NewOpenWeatherAirQuality(opts(cfg.OpenWeatherAPIKey)),
			providers.NewOpenMeteoAirQuality(opts("")),
		),
		weather.WithAlerts(providers.NewRegionalAlerts(opts(""), nil)),
	}

	a := &app{cfg: cfg, log: log, registry: registry, store: mem}
	if len(cfg.KafkaBrokers) > 0 {
		a.sink = publish.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		svcOpts = append(svcOpts, weather.WithSink(a.sink))
		log.WithField("topic", cfg.KafkaTopic).Info("publishing cycle results to kafka")
	}

	a.service = weather.NewService(mem, provs, svcOpts...)
	return a, nil
}

func (a *app) close() {
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close kafka writer")
		}
	}
}
