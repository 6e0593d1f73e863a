package weather

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cycleStart = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func tertiaryWithDays(n int) *TertiaryPayload {
	p := &TertiaryPayload{}
	for i := 0; i < n; i++ {
		p.Daily.Time = append(p.Daily.Time, fmt.Sprintf("2024-05-%02d", i+1))
		p.Daily.WeatherCode = append(p.Daily.WeatherCode, 61)
		p.Daily.Temperature2mMax = append(p.Daily.Temperature2mMax, 20+float64(i))
		p.Daily.Temperature2mMin = append(p.Daily.Temperature2mMin, 10+float64(i))
	}
	return p
}

func tertiaryWithHours(times ...string) *TertiaryPayload {
	p := &TertiaryPayload{}
	for i, ts := range times {
		p.Hourly.Time = append(p.Hourly.Time, ts)
		p.Hourly.Temperature2m = append(p.Hourly.Temperature2m, float64(i))
		p.Hourly.WeatherCode = append(p.Hourly.WeatherCode, 0)
	}
	return p
}

func secondaryWithDays(days, hoursPerDay int) *SecondaryPayload {
	p := &SecondaryPayload{}
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < days; d++ {
		day := SecondaryForecastDay{
			Date:      base.AddDate(0, 0, d).Format("2006-01-02"),
			DateEpoch: base.AddDate(0, 0, d).Unix(),
		}
		day.Day.MaxTempC = 25
		day.Day.Condition.Text = "Sunny"
		for h := 0; h < hoursPerDay; h++ {
			ts := base.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			day.Hour = append(day.Hour, SecondaryHour{
				TimeEpoch: ts.Unix(),
				TempC:     float64(h),
				IsDay:     1,
				Condition: SecondaryCondition{Text: "Sunny"},
			})
		}
		p.Forecast.ForecastDay = append(p.Forecast.ForecastDay, day)
	}
	return p
}

func TestMergeDailyCapsAtHorizon(t *testing.T) {
	got := MergeDaily(nil, tertiaryWithDays(10), cycleStart)
	require.Len(t, got, DailyHorizon)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 26.0, got[6].MaxTemperatureC)
	assert.Equal(t, ProviderTertiary, got[0].Source)
	assert.Equal(t, "10d", got[0].IconCode)
}

func TestMergeDailyKeepsShortSeries(t *testing.T) {
	got := MergeDaily(nil, tertiaryWithDays(3), cycleStart)
	assert.Len(t, got, 3)
}

func TestMergeHourlyCapsAtHorizon(t *testing.T) {
	got := MergeHourly(secondaryWithDays(2, 24), nil, cycleStart)
	require.Len(t, got, HourlyHorizon)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), got[23].Time)
	assert.Equal(t, "01d", got[0].IconCode)
}

func TestMergePrefersSecondary(t *testing.T) {
	hourly := MergeHourly(secondaryWithDays(1, 3), tertiaryWithHours("2024-05-01T00:00"), cycleStart)
	require.Len(t, hourly, 3)
	for _, slot := range hourly {
		assert.Equal(t, ProviderSecondary, slot.Source)
	}

	daily := MergeDaily(secondaryWithDays(2, 0), tertiaryWithDays(5), cycleStart)
	require.Len(t, daily, 2)
	assert.Equal(t, ProviderSecondary, daily[0].Source)
}

func TestMergeFallsBackWhenSecondaryEmpty(t *testing.T) {
	hourly := MergeHourly(&SecondaryPayload{}, tertiaryWithHours("2024-05-01T00:00", "2024-05-01T01:00"), cycleStart)
	require.Len(t, hourly, 2)
	assert.Equal(t, ProviderTertiary, hourly[0].Source)
}

func TestMergeWithoutSources(t *testing.T) {
	hourly := MergeHourly(nil, nil, cycleStart)
	assert.NotNil(t, hourly)
	assert.Empty(t, hourly)

	daily := MergeDaily(nil, &TertiaryPayload{}, cycleStart)
	assert.NotNil(t, daily)
	assert.Empty(t, daily)
}

func TestMergeHourlyTimestampFallback(t *testing.T) {
	got := MergeHourly(nil, tertiaryWithHours("not a time", "", "2024-05-01T13:00"), cycleStart)
	require.Len(t, got, 3)
	assert.Equal(t, cycleStart, got[0].Time)
	assert.Equal(t, cycleStart.Add(time.Hour), got[1].Time)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC), got[2].Time)
}

func TestSlotTimeShapes(t *testing.T) {
	fallback := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   slotTime
		want time.Time
	}{
		{"epoch", slotTime{Epoch: want.Unix()}, want},
		{"iso", slotTime{ISO: "2024-05-01T05:00"}, want},
		{"iso with zone", slotTime{ISO: "2024-05-01T07:00:00+02:00"}, want},
		{"date and hour", slotTime{Date: "2024-05-01", Hour: 5}, want},
		{"epoch wins", slotTime{Epoch: want.Unix(), ISO: "1999-01-01T00:00"}, want},
		{"unparseable", slotTime{ISO: "soon", Date: "tomorrow"}, fallback},
		{"empty", slotTime{}, fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.resolve(fallback))
		})
	}
}

func TestMergeMissingWeatherCode(t *testing.T) {
	p := tertiaryWithDays(2)
	p.Daily.WeatherCode = p.Daily.WeatherCode[:1]

	got := MergeDaily(nil, p, cycleStart)
	require.Len(t, got, 2)
	assert.Equal(t, DefaultIconCode, got[1].IconCode)
	assert.Equal(t, DefaultDescription, got[1].Description)
}

func TestMergeDailySecondaryCapsAtHorizon(t *testing.T) {
	got := MergeDaily(secondaryWithDays(10, 0), nil, cycleStart)
	require.Len(t, got, DailyHorizon)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), got[6].Date)
	assert.Equal(t, ProviderSecondary, got[6].Source)

	assert.Len(t, MergeDaily(secondaryWithDays(3, 0), nil, cycleStart), 3)
}

func TestMergeHourlyNightIcons(t *testing.T) {
	p := tertiaryWithHours("2024-05-01T22:00", "2024-05-01T23:00", "2024-05-02T06:00")
	p.Hourly.IsDay = []int{0, 0}

	got := MergeHourly(nil, p, cycleStart)
	require.Len(t, got, 3)
	assert.Equal(t, "01n", got[0].IconCode)
	assert.Equal(t, "01n", got[1].IconCode)
	assert.Equal(t, "01d", got[2].IconCode)
}
