package whoop

import (
	"github.com/bnema/vitals-cli/internal/adapters/transport/norm"
	"github.com/bnema/vitals-cli/internal/domain"
)

// kilojoulesPerKcal converts WHOOP's cycle energy to kilocalories.
const kilojoulesPerKcal = 4.184

// Normalize folds WHOOP-shaped records into the canonical snapshot. WHOOP
// publishes no total-sleep field: duration is the light + slow-wave + REM
// stage sum in milliseconds, awake time excluded.
func (t *Transport) Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot {
	var snap domain.TrackerSnapshot

	if rec, ok := records[domain.ResourceReadiness].(RecoveryRecord); ok {
		score := rec.Recovery.Score
		contributed := false
		if norm.Finite(score.RecoveryScore) {
			snap.Recovery = norm.F64(norm.ClampPercent(*score.RecoveryScore))
			contributed = true
		}
		if norm.Finite(score.HRVRmssdMilli) {
			snap.HRV = norm.F64(*score.HRVRmssdMilli)
			contributed = true
		}
		if norm.Finite(score.RestingHeartRate) {
			snap.RestingHeartRate = norm.F64(*score.RestingHeartRate)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceSleep].(SleepRecord); ok {
		if sleep := normalizeSleep(rec.Sleep); sleep != nil {
			snap.Sleep = sleep
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceActivity].(CycleRecord); ok {
		score := rec.Cycle.Score
		contributed := false
		if norm.Finite(score.AverageHeartRate) {
			snap.HeartRate = norm.F64(*score.AverageHeartRate)
			contributed = true
		}
		if norm.Finite(score.Kilojoule) {
			snap.CaloriesOut = norm.F64(*score.Kilojoule / kilojoulesPerKcal)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	return snap
}

func normalizeSleep(sleep Sleep) *domain.SleepSummary {
	summary := &domain.SleepSummary{}
	populated := false

	stages := sleep.Score.StageSummary
	totalMilli := stages.TotalLightSleepTimeMilli + stages.TotalSlowWaveSleepTimeMilli + stages.TotalRemSleepTimeMilli
	if totalMilli > 0 {
		summary.DurationHours = norm.F64(float64(totalMilli) / 1000 / 3600)
		populated = true
	}

	if norm.Finite(sleep.Score.SleepPerformancePercentage) {
		summary.QualityScore = norm.F64(norm.ClampPercent(*sleep.Score.SleepPerformancePercentage))
		populated = true
	}
	if norm.Finite(sleep.Score.SleepEfficiencyPercentage) {
		summary.EfficiencyPercent = norm.F64(norm.ClampPercent(*sleep.Score.SleepEfficiencyPercentage))
		populated = true
	}

	if !populated {
		return nil
	}
	return summary
}
