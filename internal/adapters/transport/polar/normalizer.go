package polar

import (
	"github.com/bnema/vitals-cli/internal/adapters/transport/norm"
	"github.com/bnema/vitals-cli/internal/domain"
)

// Normalize folds AccessLink records into the canonical snapshot. Polar
// reports sleep stages in seconds, publishes no efficiency percentage, and
// exposes recharge averages in place of a readiness score.
func (t *Transport) Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot {
	var snap domain.TrackerSnapshot

	if rec, ok := records[domain.ResourceSleep].(SleepRecord); ok {
		if sleep := normalizeNight(rec.Night); sleep != nil {
			snap.Sleep = sleep
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceReadiness].(RechargeRecord); ok {
		recharge := rec.Recharge
		contributed := false
		if norm.Finite(recharge.HeartRateVariabilityAvg) {
			snap.HRV = norm.F64(*recharge.HeartRateVariabilityAvg)
			contributed = true
		}
		if norm.Finite(recharge.HeartRateAvg) {
			snap.RestingHeartRate = norm.F64(*recharge.HeartRateAvg)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceHeartRate].(HeartRateRecord); ok {
		if avg, ok := averageHeartRate(rec.Day.HeartRates); ok {
			snap.HeartRate = norm.F64(avg)
			norm.Observe(&snap, rec)
		}
	}

	return snap
}

func normalizeNight(night SleepNight) *domain.SleepSummary {
	summary := &domain.SleepSummary{}
	populated := false

	totalSeconds := night.LightSleep + night.DeepSleep + night.RemSleep
	if totalSeconds > 0 {
		summary.DurationHours = norm.F64(float64(totalSeconds) / 3600)
		populated = true
	}

	if norm.Finite(night.SleepScore) {
		summary.QualityScore = norm.F64(norm.ClampPercent(*night.SleepScore))
		populated = true
	}

	if !populated {
		return nil
	}
	return summary
}

func averageHeartRate(samples []HeartRateSample) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, sample := range samples {
		sum += sample.HeartRate
	}
	return sum / float64(len(samples)), true
}
