package oura

import (
	"github.com/bnema/vitals-cli/internal/adapters/transport/norm"
	"github.com/bnema/vitals-cli/internal/domain"
)

// Normalize folds Oura-shaped records into the canonical snapshot. Sleep
// durations arrive in seconds; readiness carries the recovery score and the
// resting heart rate contributor; HRV comes from the sleep session average.
func (t *Transport) Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot {
	var snap domain.TrackerSnapshot

	if rec, ok := records[domain.ResourceSleep].(SleepRecord); ok {
		session := rec.Session
		contributed := false

		summary := &domain.SleepSummary{}
		if session.TotalSleepDuration > 0 {
			summary.DurationHours = norm.F64(float64(session.TotalSleepDuration) / 3600)
			contributed = true
		}
		if norm.Finite(session.Efficiency) {
			summary.EfficiencyPercent = norm.F64(norm.ClampPercent(*session.Efficiency))
			contributed = true
		}
		if contributed {
			snap.Sleep = summary
		}

		if norm.Finite(session.AverageHRV) {
			snap.HRV = norm.F64(*session.AverageHRV)
			contributed = true
		}
		if norm.Finite(session.AverageHeartRate) {
			snap.HeartRate = norm.F64(*session.AverageHeartRate)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceReadiness].(ReadinessRecord); ok {
		contributed := false
		if norm.Finite(rec.Day.Score) {
			snap.Recovery = norm.F64(norm.ClampPercent(*rec.Day.Score))
			contributed = true
		}
		if norm.Finite(rec.Day.Contributors.RestingHeartRate) {
			snap.RestingHeartRate = norm.F64(*rec.Day.Contributors.RestingHeartRate)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	if rec, ok := records[domain.ResourceActivity].(ActivityRecord); ok {
		contributed := false
		if rec.Day.Steps != nil {
			snap.Steps = norm.Int(*rec.Day.Steps)
			contributed = true
		}
		if norm.Finite(rec.Day.TotalCalories) {
			snap.CaloriesOut = norm.F64(*rec.Day.TotalCalories)
			contributed = true
		}
		if contributed {
			norm.Observe(&snap, rec)
		}
	}

	return snap
}
