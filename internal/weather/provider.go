package weather

import (
	"context"
)

// RawPayload is the tagged union of the three provider response shapes.
// Exactly one of the pointers matching Provider is set.
type RawPayload struct {
	Provider  ProviderID
	Primary   *PrimaryPayload
	Secondary *SecondaryPayload
	Tertiary  *TertiaryPayload
}

// PrimaryPayload is the OpenWeatherMap current-conditions body.
type PrimaryPayload struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"`
	Clouds     struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// SecondaryPayload is the WeatherAPI.com forecast body (current plus forecast days).
type SecondaryPayload struct {
	Current struct {
		LastUpdatedEpoch int64              `json:"last_updated_epoch"`
		TempC            *float64           `json:"temp_c"`
		FeelsLikeC       *float64           `json:"feelslike_c"`
		Humidity         *float64           `json:"humidity"`
		PressureMb       *float64           `json:"pressure_mb"`
		WindKph          *float64           `json:"wind_kph"`
		WindDegree       *float64           `json:"wind_degree"`
		VisKm            *float64           `json:"vis_km"`
		UV               *float64           `json:"uv"`
		Cloud            *float64           `json:"cloud"`
		IsDay            int                `json:"is_day"`
		Condition        SecondaryCondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []SecondaryForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

// SecondaryCondition is WeatherAPI's condition block.
type SecondaryCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// SecondaryForecastDay is one WeatherAPI forecast day with its hours.
type SecondaryForecastDay struct {
	Date      string `json:"date"`
	DateEpoch int64  `json:"date_epoch"`
	Day       struct {
		MaxTempC          float64            `json:"maxtemp_c"`
		MinTempC          float64            `json:"mintemp_c"`
		MaxWindKph        float64            `json:"maxwind_kph"`
		DailyChanceOfRain float64            `json:"daily_chance_of_rain"`
		UV                float64            `json:"uv"`
		Condition         SecondaryCondition `json:"condition"`
	} `json:"day"`
	Hour []SecondaryHour `json:"hour"`
}

// SecondaryHour is one WeatherAPI forecast hour.
type SecondaryHour struct {
	TimeEpoch    int64              `json:"time_epoch"`
	Time         string             `json:"time"`
	TempC        float64            `json:"temp_c"`
	ChanceOfRain float64            `json:"chance_of_rain"`
	WindKph      float64            `json:"wind_kph"`
	UV           float64            `json:"uv"`
	IsDay        int                `json:"is_day"`
	Condition    SecondaryCondition `json:"condition"`
}

// TertiaryPayload is the Open-Meteo forecast body: a current block plus
// parallel hourly and daily arrays.
type TertiaryPayload struct {
	Current struct {
		Time                     string   `json:"time"`
		Temperature2m            *float64 `json:"temperature_2m"`
		ApparentTemperature      *float64 `json:"apparent_temperature"`
		RelativeHumidity2m       *float64 `json:"relative_humidity_2m"`
		PressureMSL              *float64 `json:"pressure_msl"`
		WindSpeed10m             *float64 `json:"wind_speed_10m"`
		WindDirection10m         *float64 `json:"wind_direction_10m"`
		Visibility               *float64 `json:"visibility"`
		UVIndex                  *float64 `json:"uv_index"`
		CloudCover               *float64 `json:"cloud_cover"`
		PrecipitationProbability *float64 `json:"precipitation_probability"`
		WeatherCode              *int     `json:"weather_code"`
		IsDay                    *int     `json:"is_day"`
	} `json:"current"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
		WindSpeed10m             []float64 `json:"wind_speed_10m"`
		UVIndex                  []float64 `json:"uv_index"`
		IsDay                    []int     `json:"is_day"`
	} `json:"hourly"`
	Daily struct {
		Time                        []string  `json:"time"`
		WeatherCode                 []int     `json:"weather_code"`
		Temperature2mMax            []float64 `json:"temperature_2m_max"`
		Temperature2mMin            []float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
		WindSpeed10mMax             []float64 `json:"wind_speed_10m_max"`
		UVIndexMax                  []float64 `json:"uv_index_max"`
	} `json:"daily"`
}

// Provider abstracts one of the three weather data sources.
type Provider interface {
	ID() ProviderID
	Fetch(ctx context.Context, coords Coordinates) (RawPayload, error)
}

// AirQualitySource returns air quality already mapped to the US AQI scale.
type AirQualitySource interface {
	Name() string
	FetchAirQuality(ctx context.Context, coords Coordinates) (AirQuality, error)
}

// RawAlert is an alert as the regional feed reported it.
type RawAlert struct {
	Title       string
	Description string
	Severity    string
}

// AlertSource returns the raw alert feed for a location. Regions without an
// integrated feed answer with an empty list.
type AlertSource interface {
	FetchAlerts(ctx context.Context, loc Location) ([]RawAlert, error)
}

// Store keeps the latest cycle and a short history of previous ones.
type Store interface {
	Save(result CycleResult)
	Latest() (CycleResult, error)
}

// Sink receives every completed cycle. Publishing is best-effort.
type Sink interface {
	Publish(ctx context.Context, result CycleResult) error
}
