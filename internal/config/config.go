package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-ensemble/internal/common"
	"github.com/i474232898/weather-ensemble/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	// HTTPTimeout bounds each outbound fetch of a refresh cycle.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// ProviderRateLimit caps outbound requests per second per provider (0 = unlimited).
	ProviderRateLimit float64 `validate:"gte=0"`

	// NWSUserAgent identifies us to api.weather.gov, which rejects anonymous clients.
	NWSUserAgent string

	Location weather.Location
	Settings weather.Settings

	// HistorySize is how many past cycles are kept in memory.
	HistorySize int `validate:"gte=1"`

	KafkaBrokers []string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`

	Port      string `validate:"required,numeric"`
	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=text json"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("provider_rate_limit", 1.0)
	v.SetDefault("nws_user_agent", "weather-ensemble (ops@example.com)")
	v.SetDefault("region_code", "")
	v.SetDefault("temperature_unit", string(weather.Celsius))
	v.SetDefault("wind_unit", string(weather.WindKmh))
	v.SetDefault("auto_refresh", true)
	v.SetDefault("refresh_interval", "5m")
	v.SetDefault("history_size", 32)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "weather.cycles")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from the environment (and a .env file if present)
// with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &AppConfig{
		OpenWeatherAPIKey: v.GetString("openweather_api_key"),
		WeatherAPIKey:     v.GetString("weatherapi_api_key"),
		ProviderRateLimit: v.GetFloat64("provider_rate_limit"),
		NWSUserAgent:      v.GetString("nws_user_agent"),
		HistorySize:       v.GetInt("history_size"),
		KafkaTopic:        v.GetString("kafka_topic"),
		Port:              v.GetString("port"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		LogFormat:         strings.ToLower(v.GetString("log_format")),
	}

	timeout, err := time.ParseDuration(v.GetString("http_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(v.GetString("refresh_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.Settings = weather.Settings{
		TemperatureUnit:   weather.TemperatureUnit(strings.ToLower(v.GetString("temperature_unit"))),
		WindUnit:          weather.WindUnit(strings.ToLower(v.GetString("wind_unit"))),
		AutoRefresh:       v.GetBool("auto_refresh"),
		RefreshIntervalMs: interval.Milliseconds(),
	}

	loc, err := loadLocation(v)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	if brokers := strings.TrimSpace(v.GetString("kafka_brokers")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadLocation(v *viper.Viper) (weather.Location, error) {
	latStr := strings.TrimSpace(v.GetString("location_lat"))
	lonStr := strings.TrimSpace(v.GetString("location_lon"))
	if latStr == "" || lonStr == "" {
		return weather.Location{}, fmt.Errorf("LOCATION_LAT and LOCATION_LON must both be set")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid LOCATION_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid LOCATION_LON: %w", err)
	}

	return weather.Location{
		Coordinates: weather.Coordinates{Lat: lat, Lon: lon},
		RegionCode:  common.UpperTrim(v.GetString("region_code")),
	}, nil
}
