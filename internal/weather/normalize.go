package weather

import (
	"strings"
	"time"

	"github.com/i474232898/weather-ensemble/internal/common"
)

// Fallback pair used when a provider reports no usable condition.
const (
	DefaultDescription = "Unknown"
	DefaultIconCode    = "01d"
)

const msToKmh = 3.6

// Normalize maps a provider payload onto the common observation shape.
// The mapping is chosen by the payload's provider tag. A missing optional
// field becomes 0; a missing temperature is a malformed payload.
func Normalize(raw RawPayload) (ObservationRecord, error) {
	switch raw.Provider {
	case ProviderPrimary:
		if raw.Primary == nil {
			return ObservationRecord{}, malformed(raw.Provider, "empty payload")
		}
		return normalizePrimary(raw.Primary)
	case ProviderSecondary:
		if raw.Secondary == nil {
			return ObservationRecord{}, malformed(raw.Provider, "empty payload")
		}
		return normalizeSecondary(raw.Secondary)
	case ProviderTertiary:
		if raw.Tertiary == nil {
			return ObservationRecord{}, malformed(raw.Provider, "empty payload")
		}
		return normalizeTertiary(raw.Tertiary)
	default:
		return ObservationRecord{}, malformed(raw.Provider, "unknown provider tag")
	}
}

// normalizePrimary: wind arrives in m/s and visibility in metres. The current
// conditions endpoint carries neither UV nor precipitation chance, both stay 0.
func normalizePrimary(p *PrimaryPayload) (ObservationRecord, error) {
	if p.Main.Temp == nil {
		return ObservationRecord{}, malformed(ProviderPrimary, "main.temp missing")
	}

	desc, icon := DefaultDescription, DefaultIconCode
	if len(p.Weather) > 0 && p.Weather[0].Icon != "" {
		desc, icon = p.Weather[0].Description, p.Weather[0].Icon
	}

	return ObservationRecord{
		Provider: ProviderPrimary,
		Reading: Reading{
			TemperatureC:     *p.Main.Temp,
			FeelsLikeC:       value(p.Main.FeelsLike),
			HumidityPct:      value(p.Main.Humidity),
			PressureHPa:      value(p.Main.Pressure),
			WindSpeedKmh:     value(p.Wind.Speed) * msToKmh,
			WindDirectionDeg: value(p.Wind.Deg),
			VisibilityKm:     value(p.Visibility) / 1000,
			CloudCoverPct:    value(p.Clouds.All),
			Description:      desc,
			IconCode:         icon,
			ObservedAt:       p.Dt,
		},
	}, nil
}

func normalizeSecondary(p *SecondaryPayload) (ObservationRecord, error) {
	c := p.Current
	if c.TempC == nil {
		return ObservationRecord{}, malformed(ProviderSecondary, "current.temp_c missing")
	}

	var chance float64
	if len(p.Forecast.ForecastDay) > 0 {
		chance = p.Forecast.ForecastDay[0].Day.DailyChanceOfRain
	}

	desc, icon := conditionFromText(c.Condition.Text, c.IsDay == 1)

	return ObservationRecord{
		Provider: ProviderSecondary,
		Reading: Reading{
			TemperatureC:           *c.TempC,
			FeelsLikeC:             value(c.FeelsLikeC),
			HumidityPct:            value(c.Humidity),
			PressureHPa:            value(c.PressureMb),
			WindSpeedKmh:           value(c.WindKph),
			WindDirectionDeg:       value(c.WindDegree),
			VisibilityKm:           value(c.VisKm),
			UVIndex:                value(c.UV),
			CloudCoverPct:          value(c.Cloud),
			PrecipitationChancePct: chance,
			Description:            desc,
			IconCode:               icon,
			ObservedAt:             c.LastUpdatedEpoch,
		},
	}, nil
}

// normalizeTertiary: wind is already km/h, visibility arrives in metres.
func normalizeTertiary(p *TertiaryPayload) (ObservationRecord, error) {
	c := p.Current
	if c.Temperature2m == nil {
		return ObservationRecord{}, malformed(ProviderTertiary, "current.temperature_2m missing")
	}

	desc, icon := DefaultDescription, DefaultIconCode
	if c.WeatherCode != nil {
		desc, icon = conditionFromWMO(*c.WeatherCode, c.IsDay == nil || *c.IsDay == 1)
	}

	var observed int64
	if ts, ok := parseISO(c.Time); ok {
		observed = ts.Unix()
	}

	return ObservationRecord{
		Provider: ProviderTertiary,
		Reading: Reading{
			TemperatureC:           *c.Temperature2m,
			FeelsLikeC:             value(c.ApparentTemperature),
			HumidityPct:            value(c.RelativeHumidity2m),
			PressureHPa:            value(c.PressureMSL),
			WindSpeedKmh:           value(c.WindSpeed10m),
			WindDirectionDeg:       value(c.WindDirection10m),
			VisibilityKm:           value(c.Visibility) / 1000,
			UVIndex:                value(c.UVIndex),
			CloudCoverPct:          value(c.CloudCover),
			PrecipitationChancePct: value(c.PrecipitationProbability),
			Description:            desc,
			IconCode:               icon,
			ObservedAt:             observed,
		},
	}, nil
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

type wmoCondition struct {
	description string
	icon        string
}

// WMO weather interpretation codes as used by Open-Meteo.
var wmoConditions = map[int]wmoCondition{
	0:  {"Clear sky", "01"},
	1:  {"Mainly clear", "02"},
	2:  {"Partly cloudy", "03"},
	3:  {"Overcast", "04"},
	45: {"Fog", "50"},
	48: {"Depositing rime fog", "50"},
	51: {"Light drizzle", "09"},
	53: {"Moderate drizzle", "09"},
	55: {"Dense drizzle", "09"},
	56: {"Light freezing drizzle", "09"},
	57: {"Dense freezing drizzle", "09"},
	61: {"Slight rain", "10"},
	63: {"Moderate rain", "10"},
	65: {"Heavy rain", "10"},
	66: {"Light freezing rain", "13"},
	67: {"Heavy freezing rain", "13"},
	71: {"Slight snow fall", "13"},
	73: {"Moderate snow fall", "13"},
	75: {"Heavy snow fall", "13"},
	77: {"Snow grains", "13"},
	80: {"Slight rain showers", "09"},
	81: {"Moderate rain showers", "09"},
	82: {"Violent rain showers", "09"},
	85: {"Slight snow showers", "13"},
	86: {"Heavy snow showers", "13"},
	95: {"Thunderstorm", "11"},
	96: {"Thunderstorm with slight hail", "11"},
	99: {"Thunderstorm with heavy hail", "11"},
}

func conditionFromWMO(code int, isDay bool) (string, string) {
	c, ok := wmoConditions[code]
	if !ok {
		return DefaultDescription, DefaultIconCode
	}
	return c.description, c.icon + daySuffix(isDay)
}

// conditionFromText maps WeatherAPI's free-text condition onto the icon set.
// The text itself is kept as the description.
func conditionFromText(text string, isDay bool) (string, string) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return DefaultDescription, DefaultIconCode
	}

	var icon string
	switch {
	case common.HasAny(t, "thunder", "storm"):
		icon = "11"
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice pellets", "freezing"):
		icon = "13"
	case common.HasAny(t, "shower", "drizzle"):
		icon = "09"
	case common.HasAny(t, "rain"):
		icon = "10"
	case common.HasAny(t, "fog", "mist", "haze"):
		icon = "50"
	case common.HasAny(t, "overcast"):
		icon = "04"
	case common.HasAny(t, "partly"):
		icon = "02"
	case common.HasAny(t, "cloud"):
		icon = "03"
	case common.HasAny(t, "sunny", "clear"):
		icon = "01"
	default:
		return text, DefaultIconCode
	}
	return text, icon + daySuffix(isDay)
}

func daySuffix(isDay bool) string {
	if isDay {
		return "d"
	}
	return "n"
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseISO accepts the ISO-like date-time shapes providers emit; zone-less
// values are read as UTC.
func parseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
