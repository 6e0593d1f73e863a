package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

func setLocation(t *testing.T) {
	t.Helper()
	t.Setenv("LOCATION_LAT", "59.91")
	t.Setenv("LOCATION_LON", "10.75")
}

func TestLoadDefaults(t *testing.T) {
	setLocation(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 32, cfg.HistorySize)
	assert.Equal(t, weather.DefaultSettings(), cfg.Settings)
	assert.Equal(t, weather.Coordinates{Lat: 59.91, Lon: 10.75}, cfg.Location.Coordinates)
	assert.Empty(t, cfg.Location.RegionCode)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	setLocation(t)
	t.Setenv("REGION_CODE", " no ")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("TEMPERATURE_UNIT", "Fahrenheit")
	t.Setenv("WIND_UNIT", "mph")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "NO", cfg.Location.RegionCode)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Settings.RefreshInterval())
	assert.False(t, cfg.Settings.AutoRefresh)
	assert.Equal(t, weather.Fahrenheit, cfg.Settings.TemperatureUnit)
	assert.Equal(t, weather.WindMph, cfg.Settings.WindUnit)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing location", map[string]string{"LOCATION_LAT": "", "LOCATION_LON": ""}},
		{"bad latitude", map[string]string{"LOCATION_LAT": "north"}},
		{"latitude out of range", map[string]string{"LOCATION_LAT": "91"}},
		{"bad timeout", map[string]string{"HTTP_TIMEOUT": "soon"}},
		{"interval too short", map[string]string{"REFRESH_INTERVAL": "10s"}},
		{"unknown unit", map[string]string{"TEMPERATURE_UNIT": "kelvin"}},
		{"bad port", map[string]string{"PORT": "http"}},
		{"bad region", map[string]string{"REGION_CODE": "USA"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLocation(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
