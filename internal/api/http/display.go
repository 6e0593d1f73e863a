package httpapi

import (
	"github.com/i474232898/weather-ensemble/internal/weather"
)

const kmhPerMph = 1.609344

// displayReading is the consensus converted to the user's display units.
type displayReading struct {
	TemperatureUnit weather.TemperatureUnit `json:"temperatureUnit"`
	WindUnit        weather.WindUnit        `json:"windUnit"`
	Temperature     float64                 `json:"temperature"`
	FeelsLike       float64                 `json:"feelsLike"`
	WindSpeed       float64                 `json:"windSpeed"`
}

func present(c *weather.ConsensusReading, s weather.Settings) *displayReading {
	if c == nil {
		return nil
	}
	return &displayReading{
		TemperatureUnit: s.TemperatureUnit,
		WindUnit:        s.WindUnit,
		Temperature:     convertTemperature(c.TemperatureC, s.TemperatureUnit),
		FeelsLike:       convertTemperature(c.FeelsLikeC, s.TemperatureUnit),
		WindSpeed:       convertWind(c.WindSpeedKmh, s.WindUnit),
	}
}

func convertTemperature(celsius float64, unit weather.TemperatureUnit) float64 {
	if unit == weather.Fahrenheit {
		return weather.Round1(celsius*9/5 + 32)
	}
	return weather.Round1(celsius)
}

func convertWind(kmh float64, unit weather.WindUnit) float64 {
	switch unit {
	case weather.WindMph:
		return weather.Round1(kmh / kmhPerMph)
	case weather.WindMs:
		return weather.Round1(kmh / 3.6)
	default:
		return weather.Round1(kmh)
	}
}
