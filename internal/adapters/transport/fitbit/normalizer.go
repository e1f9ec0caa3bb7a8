package fitbit

import (
	"github.com/bnema/vitals-cli/internal/adapters/transport/norm"
	"github.com/bnema/vitals-cli/internal/domain"
)

// Normalize folds Fitbit-shaped records into the canonical snapshot.
// Fitbit has no single total-sleep field in the 1.2 stage format; duration
// is the sum of light, deep and REM stage minutes (wake excluded).
func (t *Transport) Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot {
	var snap domain.TrackerSnapshot

	if rec, ok := records[domain.ResourceSleep].(SleepRecord); ok {
		if sleep := normalizeSleep(rec.Log); sleep != nil {
			snap.Sleep = sleep
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceHeartRate].(HeartRecord); ok {
		if resting := rec.Day.Value.RestingHeartRate; norm.Finite(resting) {
			snap.RestingHeartRate = norm.F64(*resting)
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceActivity].(ActivityRecord); ok {
		contributed := false
		if rec.Summary.Steps != nil {
			snap.Steps = norm.Int(*rec.Summary.Steps)
			contributed = true
		}
		if norm.Finite(rec.Summary.CaloriesOut) {
			snap.CaloriesOut = norm.F64(*rec.Summary.CaloriesOut)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceHRV].(HRVRecord); ok {
		if rmssd := rec.Day.Value.DailyRmssd; norm.Finite(rmssd) {
			snap.HRV = norm.F64(*rmssd)
			norm.Observe(&snap, rec)
		}
	}

	return snap
}

func normalizeSleep(log SleepLog) *domain.SleepSummary {
	summary := &domain.SleepSummary{}
	populated := false

	stages := log.Levels.Summary
	if stages.Light != nil || stages.Deep != nil || stages.Rem != nil {
		minutes := stageMinutes(stages.Light) + stageMinutes(stages.Deep) + stageMinutes(stages.Rem)
		summary.DurationHours = norm.F64(minutes / 60)
		populated = true
	} else if log.Duration > 0 {
		// Classic-format logs carry no stage summary; fall back to the
		// vendor's millisecond duration.
		summary.DurationHours = norm.F64(float64(log.Duration) / 1000 / 3600)
		populated = true
	}

	if norm.Finite(log.Efficiency) {
		summary.EfficiencyPercent = norm.F64(norm.ClampPercent(*log.Efficiency))
		populated = true
	}

	if !populated {
		return nil
	}
	return summary
}

func stageMinutes(stage *SleepStage) float64 {
	if stage == nil {
		return 0
	}
	return stage.Minutes
}
