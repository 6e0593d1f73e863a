package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

const (
	openMeteoBaseURL   = "https://api.open-meteo.com/v1"
	openMeteoAQBaseURL = "https://air-quality-api.open-meteo.com/v1"
)

var (
	openMeteoCurrent = []string{
		"temperature_2m", "apparent_temperature", "relative_humidity_2m", "pressure_msl",
		"wind_speed_10m", "wind_direction_10m", "visibility", "uv_index", "cloud_cover",
		"precipitation_probability", "weather_code", "is_day",
	}
	openMeteoHourly = []string{
		"temperature_2m", "precipitation_probability", "weather_code", "wind_speed_10m", "uv_index", "is_day",
	}
	openMeteoDaily = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"precipitation_probability_max", "wind_speed_10m_max", "uv_index_max",
	}
)

// OpenMeteoProvider is the Tertiary provider: a single multi-metric call
// returning current values plus hourly and daily arrays. No key required.
type OpenMeteoProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the Open-Meteo forecast client.
func NewOpenMeteoProvider(opts Options) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		baseURL: opts.baseURL(openMeteoBaseURL),
		httpCfg: opts.httpConfig(),
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) ID() weather.ProviderID {
	return weather.ProviderTertiary
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.RawPayload, error) {
	values := coordValues(coords)
	values.Set("current", strings.Join(openMeteoCurrent, ","))
	values.Set("hourly", strings.Join(openMeteoHourly, ","))
	values.Set("daily", strings.Join(openMeteoDaily, ","))
	values.Set("wind_speed_unit", "kmh")
	values.Set("timezone", "UTC")
	values.Set("forecast_days", strconv.Itoa(weather.DailyHorizon))
	u := fmt.Sprintf("%s/forecast?%s", p.baseURL, values.Encode())

	var payload weather.TertiaryPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.RawPayload{}, fmt.Errorf("openmeteo: %w", err)
	}
	return weather.RawPayload{Provider: weather.ProviderTertiary, Tertiary: &payload}, nil
}

// OpenMeteoAirQuality is the fallback air-quality source; it reports US AQI natively.
type OpenMeteoAirQuality struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoAirQuality creates the Open-Meteo air-quality client.
func NewOpenMeteoAirQuality(opts Options) *OpenMeteoAirQuality {
	return &OpenMeteoAirQuality{
		baseURL: opts.baseURL(openMeteoAQBaseURL),
		httpCfg: opts.httpConfig(),
		circuit: newBreaker("openmeteo-air"),
	}
}

func (a *OpenMeteoAirQuality) Name() string {
	return "openmeteo-air"
}

func (a *OpenMeteoAirQuality) FetchAirQuality(ctx context.Context, coords weather.Coordinates) (weather.AirQuality, error) {
	values := coordValues(coords)
	values.Set("current", "us_aqi,pm2_5,pm10,ozone,nitrogen_dioxide")
	u := fmt.Sprintf("%s/air-quality?%s", a.baseURL, values.Encode())

	var payload struct {
		Current struct {
			USAQI *float64 `json:"us_aqi"`
			PM25  float64  `json:"pm2_5"`
			PM10  float64  `json:"pm10"`
			Ozone float64  `json:"ozone"`
			NO2   float64  `json:"nitrogen_dioxide"`
		} `json:"current"`
	}
	if err := getJSON(ctx, a.httpCfg, a.circuit, u, &payload); err != nil {
		return weather.AirQuality{}, fmt.Errorf("openmeteo air: %w", err)
	}
	if payload.Current.USAQI == nil {
		return weather.AirQuality{}, fmt.Errorf("openmeteo air: %w: us_aqi missing", weather.ErrMalformedPayload)
	}

	return weather.AirQuality{
		AQI:    int(*payload.Current.USAQI + 0.5),
		PM25:   payload.Current.PM25,
		PM10:   payload.Current.PM10,
		O3:     payload.Current.Ozone,
		NO2:    payload.Current.NO2,
		Source: a.Name(),
	}, nil
}

func coordValues(coords weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	return values
}
