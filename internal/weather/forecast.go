package weather

import (
	"time"
)

// Forecast horizons.
const (
	HourlyHorizon = 24
	DailyHorizon  = 7
)

// slotTime carries whichever timestamp shape a source emitted for a slot.
type slotTime struct {
	Epoch int64  // UNIX seconds
	ISO   string // 2006-01-02T15:04 and friends
	Date  string // 2006-01-02, paired with Hour
	Hour  int
}

// resolve returns the first shape that parses, or fallback.
func (t slotTime) resolve(fallback time.Time) time.Time {
	if t.Epoch > 0 {
		return time.Unix(t.Epoch, 0).UTC()
	}
	if ts, ok := parseISO(t.ISO); ok {
		return ts
	}
	if t.Date != "" {
		if d, err := time.ParseInLocation("2006-01-02", t.Date, time.UTC); err == nil {
			return d.Add(time.Duration(t.Hour) * time.Hour)
		}
	}
	return fallback
}

// MergeHourly picks the hourly series by priority: Secondary's native hours,
// then Tertiary's arrays, then nothing. Series are never averaged across
// providers. At most HourlyHorizon slots are returned.
func MergeHourly(secondary *SecondaryPayload, tertiary *TertiaryPayload, cycleStart time.Time) []HourlySlot {
	if secondary != nil {
		if slots := secondaryHourly(secondary, cycleStart); len(slots) > 0 {
			return slots
		}
	}
	if tertiary != nil {
		if slots := tertiaryHourly(tertiary, cycleStart); len(slots) > 0 {
			return slots
		}
	}
	return []HourlySlot{}
}

// MergeDaily is MergeHourly for the daily series, capped at DailyHorizon.
func MergeDaily(secondary *SecondaryPayload, tertiary *TertiaryPayload, cycleStart time.Time) []DailySlot {
	if secondary != nil {
		if slots := secondaryDaily(secondary, cycleStart); len(slots) > 0 {
			return slots
		}
	}
	if tertiary != nil {
		if slots := tertiaryDaily(tertiary, cycleStart); len(slots) > 0 {
			return slots
		}
	}
	return []DailySlot{}
}

func secondaryHourly(p *SecondaryPayload, cycleStart time.Time) []HourlySlot {
	slots := make([]HourlySlot, 0, HourlyHorizon)
	for _, day := range p.Forecast.ForecastDay {
		for _, h := range day.Hour {
			if len(slots) == HourlyHorizon {
				return slots
			}
			i := len(slots)
			desc, icon := conditionFromText(h.Condition.Text, h.IsDay == 1)
			slots = append(slots, HourlySlot{
				Time:                   slotTime{Epoch: h.TimeEpoch, ISO: h.Time}.resolve(cycleStart.Add(time.Duration(i) * time.Hour)),
				TemperatureC:           h.TempC,
				PrecipitationChancePct: h.ChanceOfRain,
				WeatherCode:            h.Condition.Code,
				Description:            desc,
				IconCode:               icon,
				WindSpeedKmh:           h.WindKph,
				UVIndex:                h.UV,
				Source:                 ProviderSecondary,
			})
		}
	}
	return slots
}

func secondaryDaily(p *SecondaryPayload, cycleStart time.Time) []DailySlot {
	days := p.Forecast.ForecastDay
	if len(days) > DailyHorizon {
		days = days[:DailyHorizon]
	}

	slots := make([]DailySlot, 0, len(days))
	for i, d := range days {
		desc, icon := conditionFromText(d.Day.Condition.Text, true)
		slots = append(slots, DailySlot{
			Date:                   slotTime{Epoch: d.DateEpoch, Date: d.Date}.resolve(cycleStart.AddDate(0, 0, i)),
			MaxTemperatureC:        d.Day.MaxTempC,
			MinTemperatureC:        d.Day.MinTempC,
			PrecipitationChancePct: d.Day.DailyChanceOfRain,
			WeatherCode:            d.Day.Condition.Code,
			Description:            desc,
			IconCode:               icon,
			MaxWindSpeedKmh:        d.Day.MaxWindKph,
			MaxUVIndex:             d.Day.UV,
			Source:                 ProviderSecondary,
		})
	}
	return slots
}

func tertiaryHourly(p *TertiaryPayload, cycleStart time.Time) []HourlySlot {
	h := p.Hourly
	n := min(max(len(h.Time), len(h.Temperature2m)), HourlyHorizon)

	slots := make([]HourlySlot, 0, n)
	for i := 0; i < n; i++ {
		code := intAt(h.WeatherCode, i)
		desc, icon := conditionFromWMO(code, intAt(h.IsDay, i) != 0)
		slots = append(slots, HourlySlot{
			Time:                   slotTime{ISO: stringAt(h.Time, i)}.resolve(cycleStart.Add(time.Duration(i) * time.Hour)),
			TemperatureC:           floatAt(h.Temperature2m, i),
			PrecipitationChancePct: floatAt(h.PrecipitationProbability, i),
			WeatherCode:            code,
			Description:            desc,
			IconCode:               icon,
			WindSpeedKmh:           floatAt(h.WindSpeed10m, i),
			UVIndex:                floatAt(h.UVIndex, i),
			Source:                 ProviderTertiary,
		})
	}
	return slots
}

func tertiaryDaily(p *TertiaryPayload, cycleStart time.Time) []DailySlot {
	d := p.Daily
	n := min(max(len(d.Time), len(d.Temperature2mMax)), DailyHorizon)

	slots := make([]DailySlot, 0, n)
	for i := 0; i < n; i++ {
		code := intAt(d.WeatherCode, i)
		desc, icon := conditionFromWMO(code, true)
		slots = append(slots, DailySlot{
			Date:                   slotTime{Date: stringAt(d.Time, i)}.resolve(cycleStart.AddDate(0, 0, i)),
			MaxTemperatureC:        floatAt(d.Temperature2mMax, i),
			MinTemperatureC:        floatAt(d.Temperature2mMin, i),
			PrecipitationChancePct: floatAt(d.PrecipitationProbabilityMax, i),
			WeatherCode:            code,
			Description:            desc,
			IconCode:               icon,
			MaxWindSpeedKmh:        floatAt(d.WindSpeed10mMax, i),
			MaxUVIndex:             floatAt(d.UVIndexMax, i),
			Source:                 ProviderTertiary,
		})
	}
	return slots
}

func floatAt(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// intAt returns -1 past the end so a missing weather code maps to the default
// condition and a missing is_day flag reads as day.
func intAt(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return -1
}

func stringAt(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
