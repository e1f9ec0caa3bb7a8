package whoop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/vitals-cli/internal/adapters/transport/norm"
	"github.com/bnema/vitals-cli/internal/domain"
)

func TestNormalizeMapsRecoverySleepAndCycle(t *testing.T) {
	t.Parallel()

	transport := New("", nil, 0)
	snap := transport.Normalize(map[domain.Resource]domain.Record{
		domain.ResourceReadiness: RecoveryRecord{Recovery: Recovery{
			UpdatedAt: "2024-01-02T06:45:00Z",
			Score: RecoveryScore{
				RecoveryScore:    norm.F64(67),
				HRVRmssdMilli:    norm.F64(52.3),
				RestingHeartRate: norm.F64(51),
			},
		}},
		domain.ResourceSleep: SleepRecord{Sleep: Sleep{
			End: "2024-01-02T06:55:00Z",
			Score: SleepScore{
				SleepPerformancePercentage: norm.F64(88),
				SleepEfficiencyPercentage:  norm.F64(94),
				StageSummary: SleepStageSummary{
					TotalLightSleepTimeMilli:    14400000,
					TotalSlowWaveSleepTimeMilli: 5400000,
					TotalRemSleepTimeMilli:      6600000,
					TotalAwakeTimeMilli:         2100000,
				},
			},
		}},
		domain.ResourceActivity: CycleRecord{Cycle: Cycle{
			End: "2024-01-03T04:00:00Z",
			Score: CycleScore{
				Kilojoule:        norm.F64(9832.5),
				AverageHeartRate: norm.F64(72),
			},
		}},
	})

	require.NotNil(t, snap.Recovery)
	assert.Equal(t, float64(67), *snap.Recovery)
	require.NotNil(t, snap.HRV)
	assert.Equal(t, 52.3, *snap.HRV)
	require.NotNil(t, snap.RestingHeartRate)
	assert.Equal(t, float64(51), *snap.RestingHeartRate)

	require.NotNil(t, snap.Sleep)
	require.NotNil(t, snap.Sleep.DurationHours)
	// 4h light + 1.5h slow wave + 110min REM, awake excluded.
	assert.InDelta(t, 7.333333, *snap.Sleep.DurationHours, 1e-6)
	require.NotNil(t, snap.Sleep.QualityScore)
	assert.Equal(t, float64(88), *snap.Sleep.QualityScore)
	require.NotNil(t, snap.Sleep.EfficiencyPercent)
	assert.Equal(t, float64(94), *snap.Sleep.EfficiencyPercent)

	require.NotNil(t, snap.HeartRate)
	assert.Equal(t, float64(72), *snap.HeartRate)
	require.NotNil(t, snap.CaloriesOut)
	assert.InDelta(t, 2350.0, *snap.CaloriesOut, 0.1)

	// Cycle end is the latest observation; it drives CapturedAt.
	assert.Equal(t, time.Date(2024, 1, 3, 4, 0, 0, 0, time.UTC), snap.CapturedAt.UTC())
}

func TestNormalizeExcludesAwakeTimeFromDuration(t *testing.T) {
	t.Parallel()

	transport := New("", nil, 0)
	snap := transport.Normalize(map[domain.Resource]domain.Record{
		domain.ResourceSleep: SleepRecord{Sleep: Sleep{
			Score: SleepScore{StageSummary: SleepStageSummary{
				TotalLightSleepTimeMilli: 3600000,
				TotalAwakeTimeMilli:      3600000,
			}},
		}},
	})

	require.NotNil(t, snap.Sleep)
	require.NotNil(t, snap.Sleep.DurationHours)
	assert.InDelta(t, 1.0, *snap.Sleep.DurationHours, 1e-9)
}

func TestNormalizeClampsPercentages(t *testing.T) {
	t.Parallel()

	transport := New("", nil, 0)
	snap := transport.Normalize(map[domain.Resource]domain.Record{
		domain.ResourceReadiness: RecoveryRecord{Recovery: Recovery{
			Score: RecoveryScore{RecoveryScore: norm.F64(104)},
		}},
		domain.ResourceSleep: SleepRecord{Sleep: Sleep{
			Score: SleepScore{SleepEfficiencyPercentage: norm.F64(-3)},
		}},
	})

	require.NotNil(t, snap.Recovery)
	assert.Equal(t, float64(100), *snap.Recovery)
	require.NotNil(t, snap.Sleep)
	require.NotNil(t, snap.Sleep.EfficiencyPercent)
	assert.Equal(t, float64(0), *snap.Sleep.EfficiencyPercent)
}

func TestNormalizeUnscoredRecordsYieldEmptySnapshot(t *testing.T) {
	t.Parallel()

	transport := New("", nil, 0)
	snap := transport.Normalize(map[domain.Resource]domain.Record{
		domain.ResourceReadiness: RecoveryRecord{Recovery: Recovery{UpdatedAt: "2024-01-02T06:45:00Z"}},
		domain.ResourceActivity:  CycleRecord{Cycle: Cycle{End: "2024-01-03T04:00:00Z"}},
	})

	assert.True(t, snap.Empty())
	assert.True(t, snap.CapturedAt.IsZero())
}
