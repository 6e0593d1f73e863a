package weather

import "fmt"

// Advisory thresholds.
const (
	UVThreshold           = 3.0
	HotThresholdC         = 30.0
	FreezingThresholdC    = 0.0
	HumidHighThresholdPct = 70.0
	HumidLowThresholdPct  = 30.0
	AQIThreshold          = 100
	WindThresholdKmh      = 25.0
)

// TipFavorable is emitted when no other rule fires.
const TipFavorable = "Weather conditions look favorable. Enjoy your day!"

type advisoryRule func(c ConsensusReading, aq *AirQuality) (string, bool)

// Evaluated in this order; output order follows it.
var advisoryRules = []advisoryRule{
	uvRule,
	temperatureRule,
	humidityRule,
	airQualityRule,
	windRule,
}

// DeriveTips evaluates the advisory rules against a consensus reading and
// optional air quality. Each rule adds at most one tip.
func DeriveTips(c ConsensusReading, aq *AirQuality) []string {
	tips := make([]string, 0, len(advisoryRules))
	for _, rule := range advisoryRules {
		if tip, ok := rule(c, aq); ok {
			tips = append(tips, tip)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, TipFavorable)
	}
	return tips
}

func uvRule(c ConsensusReading, _ *AirQuality) (string, bool) {
	if c.UVIndex < UVThreshold {
		return "", false
	}
	return fmt.Sprintf("UV index is %.1f. Wear sunscreen and sunglasses, and seek shade around midday.", c.UVIndex), true
}

func temperatureRule(c ConsensusReading, _ *AirQuality) (string, bool) {
	switch {
	case c.TemperatureC > HotThresholdC:
		return fmt.Sprintf("High temperature (%.1f°C). Stay hydrated and avoid strenuous activity outdoors.", c.TemperatureC), true
	case c.TemperatureC < FreezingThresholdC:
		return fmt.Sprintf("Freezing temperature (%.1f°C). Dress in warm layers and watch for ice.", c.TemperatureC), true
	}
	return "", false
}

func humidityRule(c ConsensusReading, _ *AirQuality) (string, bool) {
	switch {
	case c.HumidityPct > HumidHighThresholdPct:
		return fmt.Sprintf("High humidity (%.0f%%). It may feel warmer than it is; take breaks in cool places.", c.HumidityPct), true
	case c.HumidityPct < HumidLowThresholdPct:
		return fmt.Sprintf("Low humidity (%.0f%%). Drink water and moisturize skin.", c.HumidityPct), true
	}
	return "", false
}

func airQualityRule(_ ConsensusReading, aq *AirQuality) (string, bool) {
	if aq == nil || aq.AQI <= AQIThreshold {
		return "", false
	}
	return fmt.Sprintf("Poor air quality (AQI %d). Limit prolonged outdoor exertion, especially for sensitive groups.", aq.AQI), true
}

func windRule(c ConsensusReading, _ *AirQuality) (string, bool) {
	if c.WindSpeedKmh <= WindThresholdKmh {
		return "", false
	}
	return fmt.Sprintf("Strong wind (%.1f km/h). Secure loose objects and take care when cycling.", c.WindSpeedKmh), true
}

// owmAQIScale maps the OpenWeatherMap 1-5 index to a representative US AQI
// value in the matching band.
var owmAQIScale = map[int]int{
	1: 25,
	2: 75,
	3: 125,
	4: 175,
	5: 300,
}

// USAQIFromIndex converts a 1-5 index onto the 0-500 US AQI scale. Values
// outside 1-5 yield 0 and false.
func USAQIFromIndex(index int) (int, bool) {
	v, ok := owmAQIScale[index]
	return v, ok
}
