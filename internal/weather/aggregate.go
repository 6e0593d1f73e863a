package weather

import (
	"math"
	"sort"
)

// Aggregate merges the normalized observations of one cycle into a consensus.
//
// With no records the result is nil. A single record is returned as-is.
// Otherwise every numeric field is the plain mean over all records, rounded
// to one decimal. A field a provider did not report was normalized to 0 and
// still counts in the denominator; this biases fields that only some
// providers carry (UV, precipitation chance).
//
// ObservedAt is not averaged: it is the newest contributor timestamp.
// Description and icon come from the highest-priority contributor, and
// ContributingProviders follows PriorityOrder rather than input order.
func Aggregate(records []ObservationRecord) *ConsensusReading {
	if len(records) == 0 {
		return nil
	}

	ordered := make([]ObservationRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Provider.rank() < ordered[j].Provider.rank()
	})

	providers := make([]ProviderID, 0, len(ordered))
	for _, r := range ordered {
		providers = append(providers, r.Provider)
	}

	if len(ordered) == 1 {
		return &ConsensusReading{
			Reading:               ordered[0].Reading,
			ContributingProviders: providers,
		}
	}

	var (
		sum      Reading
		observed int64
	)
	for _, r := range ordered {
		sum.TemperatureC += r.TemperatureC
		sum.FeelsLikeC += r.FeelsLikeC
		sum.HumidityPct += r.HumidityPct
		sum.PressureHPa += r.PressureHPa
		sum.WindSpeedKmh += r.WindSpeedKmh
		sum.WindDirectionDeg += r.WindDirectionDeg
		sum.VisibilityKm += r.VisibilityKm
		sum.UVIndex += r.UVIndex
		sum.CloudCoverPct += r.CloudCoverPct
		sum.PrecipitationChancePct += r.PrecipitationChancePct

		if r.ObservedAt > observed {
			observed = r.ObservedAt
		}
	}

	n := float64(len(ordered))
	mean := func(total float64) float64 { return Round1(total / n) }

	return &ConsensusReading{
		Reading: Reading{
			TemperatureC:           mean(sum.TemperatureC),
			FeelsLikeC:             mean(sum.FeelsLikeC),
			HumidityPct:            mean(sum.HumidityPct),
			PressureHPa:            mean(sum.PressureHPa),
			WindSpeedKmh:           mean(sum.WindSpeedKmh),
			WindDirectionDeg:       mean(sum.WindDirectionDeg),
			VisibilityKm:           mean(sum.VisibilityKm),
			UVIndex:                mean(sum.UVIndex),
			CloudCoverPct:          mean(sum.CloudCoverPct),
			PrecipitationChancePct: mean(sum.PrecipitationChancePct),
			Description:            ordered[0].Description,
			IconCode:               ordered[0].IconCode,
			ObservedAt:             observed,
		},
		ContributingProviders: providers,
	}
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
