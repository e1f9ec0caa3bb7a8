package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/vitals-cli/internal/domain"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func TestRenderFullSnapshot(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	output, err := Render(domain.AggregationOutcome{
		Snapshot: &domain.TrackerSnapshot{
			Recovery:         f64(67),
			HRV:              f64(52.3),
			HeartRate:        f64(72),
			RestingHeartRate: f64(51),
			Sleep: &domain.SleepSummary{
				DurationHours:     f64(7.3),
				QualityScore:      f64(88),
				EfficiencyPercent: f64(94),
			},
			Steps:       intp(8123),
			CaloriesOut: f64(2350),
			CapturedAt:  now.Add(-3 * time.Hour),
		},
	}, RenderOptions{Provider: domain.ProviderWhoop, Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Tracker Snapshot: whoop")
	assert.Contains(t, output, "captured: 09:00 (3h ago)")
	assert.Contains(t, output, "recovery:")
	assert.Contains(t, output, "67%")
	assert.Contains(t, output, "7.3 h")
	assert.Contains(t, output, "88%")
	assert.Contains(t, output, "52.3 ms")
	assert.Contains(t, output, "72 bpm")
	assert.Contains(t, output, "8123")
	assert.Contains(t, output, "2350 kcal")
	assert.Contains(t, output, "[")
	assert.NotContains(t, output, "failed")
}

func TestRenderPartialSnapshotListsFailures(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	output, err := Render(domain.AggregationOutcome{
		Snapshot: &domain.TrackerSnapshot{
			Sleep:      &domain.SleepSummary{DurationHours: f64(7.5)},
			CapturedAt: now.Add(-20 * time.Minute),
		},
		ResourceErrors: map[domain.Resource]domain.ErrorKind{
			domain.ResourceReadiness: domain.KindRateLimited,
			domain.ResourceActivity:  domain.KindUpstreamError,
		},
	}, RenderOptions{Provider: domain.ProviderOura, Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "partial data, some resources failed:")
	assert.Contains(t, output, "activity: upstream_error")
	assert.Contains(t, output, "readiness: rate_limited")
	assert.Contains(t, output, "7.5 h")
}

func TestRenderTotalFailure(t *testing.T) {
	output, err := Render(domain.AggregationOutcome{
		ResourceErrors: map[domain.Resource]domain.ErrorKind{
			domain.ResourceSleep:     domain.KindTimeout,
			domain.ResourceReadiness: domain.KindUnauthorized,
		},
	}, RenderOptions{Provider: domain.ProviderFitbit})

	require.NoError(t, err)
	assert.Contains(t, output, "snapshot unavailable: every resource failed")
	assert.Contains(t, output, "sleep: timeout")
	assert.Contains(t, output, "readiness: unauthorized")
}

func TestRenderEmptySnapshot(t *testing.T) {
	output, err := Render(domain.AggregationOutcome{
		Snapshot: &domain.TrackerSnapshot{},
	}, RenderOptions{Provider: domain.ProviderPolar})

	require.NoError(t, err)
	assert.Contains(t, output, "No data reported for today or yesterday.")
	assert.Contains(t, output, "captured: unknown")
}
