package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider is the Primary provider: one current-conditions call.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates the OpenWeatherMap current-conditions client.
func NewOpenWeatherProvider(opts Options) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(openWeatherBaseURL),
		httpCfg: opts.httpConfig(),
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) ID() weather.ProviderID {
	return weather.ProviderPrimary
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.RawPayload, error) {
	if p.apiKey == "" {
		return weather.RawPayload{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload weather.PrimaryPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint("weather", coords, true), &payload); err != nil {
		return weather.RawPayload{}, fmt.Errorf("openweather: %w", err)
	}
	return weather.RawPayload{Provider: weather.ProviderPrimary, Primary: &payload}, nil
}

func (p *OpenWeatherProvider) endpoint(path string, coords weather.Coordinates, metric bool) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	if metric {
		values.Set("units", "metric")
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
}

// OpenWeatherAirQuality is the primary air-quality source. Its 1-5 index is
// mapped onto the US AQI scale.
type OpenWeatherAirQuality struct {
	*OpenWeatherProvider
}

// NewOpenWeatherAirQuality shares configuration with the weather client but
// trips its own circuit breaker.
func NewOpenWeatherAirQuality(opts Options) *OpenWeatherAirQuality {
	p := NewOpenWeatherProvider(opts)
	p.circuit = newBreaker("openweather-air")
	return &OpenWeatherAirQuality{OpenWeatherProvider: p}
}

func (a *OpenWeatherAirQuality) Name() string {
	return "openweathermap-air"
}

func (a *OpenWeatherAirQuality) FetchAirQuality(ctx context.Context, coords weather.Coordinates) (weather.AirQuality, error) {
	if a.apiKey == "" {
		return weather.AirQuality{}, fmt.Errorf("openweather air: %w", errMissingAPIKey)
	}

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
				O3   float64 `json:"o3"`
				NO2  float64 `json:"no2"`
			} `json:"components"`
		} `json:"list"`
	}
	if err := getJSON(ctx, a.httpCfg, a.circuit, a.endpoint("air_pollution", coords, false), &payload); err != nil {
		return weather.AirQuality{}, fmt.Errorf("openweather air: %w", err)
	}
	if len(payload.List) == 0 {
		return weather.AirQuality{}, fmt.Errorf("openweather air: %w: empty list", weather.ErrMalformedPayload)
	}

	entry := payload.List[0]
	aqi, ok := weather.USAQIFromIndex(entry.Main.AQI)
	if !ok {
		return weather.AirQuality{}, fmt.Errorf("openweather air: %w: aqi index %d", weather.ErrMalformedPayload, entry.Main.AQI)
	}

	return weather.AirQuality{
		AQI:    aqi,
		PM25:   entry.Components.PM25,
		PM10:   entry.Components.PM10,
		O3:     entry.Components.O3,
		NO2:    entry.Components.NO2,
		Source: a.Name(),
	}, nil
}
