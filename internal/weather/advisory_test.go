package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consensus(r Reading) ConsensusReading {
	return ConsensusReading{Reading: r}
}

func mild() Reading {
	return Reading{TemperatureC: 20, HumidityPct: 50, UVIndex: 1, WindSpeedKmh: 10}
}

func TestDeriveTipsOrder(t *testing.T) {
	tips := DeriveTips(consensus(Reading{UVIndex: 5, TemperatureC: 35, HumidityPct: 20}), nil)

	require.Len(t, tips, 3)
	assert.Contains(t, tips[0], "UV index is 5.0")
	assert.Contains(t, tips[1], "High temperature (35.0°C)")
	assert.Contains(t, tips[2], "Low humidity (20%)")
}

func TestDeriveTipsFavorable(t *testing.T) {
	tips := DeriveTips(consensus(mild()), &AirQuality{AQI: 40})
	assert.Equal(t, []string{TipFavorable}, tips)
}

func TestDeriveTipsEveryRule(t *testing.T) {
	r := Reading{UVIndex: 8, TemperatureC: -4, HumidityPct: 90, WindSpeedKmh: 40}
	tips := DeriveTips(consensus(r), &AirQuality{AQI: 175})

	require.Len(t, tips, 5)
	assert.Contains(t, tips[0], "UV index")
	assert.Contains(t, tips[1], "Freezing temperature")
	assert.Contains(t, tips[2], "High humidity (90%)")
	assert.Contains(t, tips[3], "AQI 175")
	assert.Contains(t, tips[4], "Strong wind (40.0 km/h)")
	assert.NotContains(t, tips, TipFavorable)
}

func TestDeriveTipsThresholds(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Reading)
		aq    *AirQuality
		fires bool
	}{
		{"uv at threshold", func(r *Reading) { r.UVIndex = 3 }, nil, true},
		{"uv below", func(r *Reading) { r.UVIndex = 2.9 }, nil, false},
		{"temperature at 30", func(r *Reading) { r.TemperatureC = 30 }, nil, false},
		{"temperature at 0", func(r *Reading) { r.TemperatureC = 0 }, nil, false},
		{"humidity at 70", func(r *Reading) { r.HumidityPct = 70 }, nil, false},
		{"humidity at 30", func(r *Reading) { r.HumidityPct = 30 }, nil, false},
		{"aqi at 100", func(*Reading) {}, &AirQuality{AQI: 100}, false},
		{"aqi above", func(*Reading) {}, &AirQuality{AQI: 101}, true},
		{"wind at 25", func(r *Reading) { r.WindSpeedKmh = 25 }, nil, false},
		{"wind above", func(r *Reading) { r.WindSpeedKmh = 25.1 }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mild()
			tt.tweak(&r)
			tips := DeriveTips(consensus(r), tt.aq)
			if tt.fires {
				require.Len(t, tips, 1)
				assert.NotEqual(t, TipFavorable, tips[0])
			} else {
				assert.Equal(t, []string{TipFavorable}, tips)
			}
		})
	}
}

func TestUSAQIFromIndex(t *testing.T) {
	for index, want := range map[int]int{1: 25, 2: 75, 3: 125, 4: 175, 5: 300} {
		got, ok := USAQIFromIndex(index)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := USAQIFromIndex(0)
	assert.False(t, ok)
	_, ok = USAQIFromIndex(6)
	assert.False(t, ok)
}
