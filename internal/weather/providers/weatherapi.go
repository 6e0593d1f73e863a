package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

const weatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider is the Secondary provider. The forecast endpoint returns
// current conditions together with daily and hourly series.
type WeatherAPIProvider struct {
	apiKey  string
	baseURL string
	days    int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPIProvider creates the WeatherAPI.com client.
func NewWeatherAPIProvider(opts Options) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(weatherAPIBaseURL),
		days:    weather.DailyHorizon,
		httpCfg: opts.httpConfig(),
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) ID() weather.ProviderID {
	return weather.ProviderSecondary
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.RawPayload, error) {
	if p.apiKey == "" {
		return weather.RawPayload{}, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; "lat,lon" is accepted.
	values.Set("q", fmt.Sprintf("%f,%f", coords.Lat, coords.Lon))
	values.Set("days", fmt.Sprintf("%d", p.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")
	u := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())

	var payload weather.SecondaryPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.RawPayload{}, fmt.Errorf("weatherapi: %w", err)
	}
	return weather.RawPayload{Provider: weather.ProviderSecondary, Secondary: &payload}, nil
}
