package weather

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProviderID identifies one of the weather providers contributing to the ensemble.
type ProviderID string

const (
	ProviderPrimary   ProviderID = "openweathermap"
	ProviderSecondary ProviderID = "weatherapi"
	ProviderTertiary  ProviderID = "openmeteo"
)

// PriorityOrder is the fixed order used for contributor lists and for picking
// the description/icon of a consensus reading.
var PriorityOrder = []ProviderID{ProviderPrimary, ProviderSecondary, ProviderTertiary}

func (p ProviderID) rank() int {
	for i, id := range PriorityOrder {
		if id == p {
			return i
		}
	}
	return len(PriorityOrder)
}

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Location is what the location-resolution collaborator hands us: a point and
// the region whose alert feed applies to it.
type Location struct {
	Coordinates
	RegionCode string `json:"regionCode" validate:"omitempty,len=2,alpha"`
}

// Key returns a canonical string key for logs and metrics.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f:%s", l.Lat, l.Lon, l.RegionCode)
}

// Reading holds the values shared by per-provider observations and the consensus.
// All numbers are metric; display conversion belongs to the consumer.
type Reading struct {
	TemperatureC           float64 `json:"temperatureC"`
	FeelsLikeC             float64 `json:"feelsLikeC"`
	HumidityPct            float64 `json:"humidityPct"`
	PressureHPa            float64 `json:"pressureHPa"`
	WindSpeedKmh           float64 `json:"windSpeedKmh"`
	WindDirectionDeg       float64 `json:"windDirectionDeg"`
	VisibilityKm           float64 `json:"visibilityKm"`
	UVIndex                float64 `json:"uvIndex"`
	CloudCoverPct          float64 `json:"cloudCoverPct"`
	PrecipitationChancePct float64 `json:"precipitationChancePct"`
	Description            string  `json:"description"`
	IconCode               string  `json:"iconCode"`
	ObservedAt             int64   `json:"observedAtEpochSeconds"`
}

// ObservationRecord is one provider's reading after normalization.
type ObservationRecord struct {
	Provider ProviderID `json:"providerId"`
	Reading
}

// ConsensusReading is the ensemble of every successful observation in a cycle.
type ConsensusReading struct {
	Reading
	ContributingProviders []ProviderID `json:"contributingProviders"`
}

// HourlySlot is one entry of the hourly forecast series.
type HourlySlot struct {
	Time                   time.Time  `json:"time"`
	TemperatureC           float64    `json:"temperatureC"`
	PrecipitationChancePct float64    `json:"precipitationChancePct"`
	WeatherCode            int        `json:"weatherCode"`
	Description            string     `json:"description"`
	IconCode               string     `json:"iconCode"`
	WindSpeedKmh           float64    `json:"windSpeedKmh"`
	UVIndex                float64    `json:"uvIndex"`
	Source                 ProviderID `json:"source"`
}

// DailySlot is one entry of the daily forecast series.
type DailySlot struct {
	Date                   time.Time  `json:"date"`
	MaxTemperatureC        float64    `json:"maxTemperatureC"`
	MinTemperatureC        float64    `json:"minTemperatureC"`
	PrecipitationChancePct float64    `json:"precipitationChancePct"`
	WeatherCode            int        `json:"weatherCode"`
	Description            string     `json:"description"`
	IconCode               string     `json:"iconCode"`
	MaxWindSpeedKmh        float64    `json:"maxWindSpeedKmh"`
	MaxUVIndex             float64    `json:"maxUvIndex"`
	Source                 ProviderID `json:"source"`
}

// AirQuality is expressed on the 0-500 US AQI scale regardless of source.
type AirQuality struct {
	AQI    int     `json:"aqi"`
	PM25   float64 `json:"pm25"`
	PM10   float64 `json:"pm10"`
	O3     float64 `json:"o3"`
	NO2    float64 `json:"no2"`
	Source string  `json:"source"`
}

// ProviderOutcome records how a single fetch of a cycle settled.
type ProviderOutcome struct {
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Kind     FailureKind   `json:"kind,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

// CycleResult is the immutable view-model produced by one refresh cycle.
type CycleResult struct {
	ID          uuid.UUID         `json:"id"`
	Location    Location          `json:"location"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt time.Time         `json:"completedAt"`
	Consensus   *ConsensusReading `json:"consensus"`
	Hourly      []HourlySlot      `json:"hourly"`
	Daily       []DailySlot       `json:"daily"`
	AirQuality  *AirQuality       `json:"airQuality"`
	Alerts      AlertView         `json:"alerts"`
	Tips        []string          `json:"tips"`
	Outcomes    []ProviderOutcome `json:"outcomes"`

	// Unavailable is set when every weather provider failed.
	Unavailable bool `json:"unavailable"`
}

// TemperatureUnit is a display preference; the core always computes in Celsius.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// WindUnit is a display preference; the core always computes in km/h.
type WindUnit string

const (
	WindKmh WindUnit = "kmh"
	WindMph WindUnit = "mph"
	WindMs  WindUnit = "ms"
)

// Settings are the user-facing options recognised by the service.
type Settings struct {
	TemperatureUnit TemperatureUnit `json:"temperatureUnit" validate:"required,oneof=celsius fahrenheit"`
	WindUnit        WindUnit        `json:"windUnit" validate:"required,oneof=kmh mph ms"`
	AutoRefresh     bool            `json:"autoRefresh"`

	// RefreshIntervalMs is kept in milliseconds to match what clients send.
	RefreshIntervalMs int64 `json:"refreshIntervalMs" validate:"required_if=AutoRefresh true,omitempty,min=60000"`
}

// RefreshInterval returns the auto-refresh period as a duration.
func (s Settings) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshIntervalMs) * time.Millisecond
}

// DefaultSettings mirrors the defaults applied when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		TemperatureUnit:   Celsius,
		WindUnit:          WindKmh,
		AutoRefresh:       true,
		RefreshIntervalMs: (5 * time.Minute).Milliseconds(),
	}
}
