package whoop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/vitals-cli/internal/domain"
)

func dayWindow(t *testing.T, date string) domain.QueryWindow {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return domain.DayWindow(parsed)
}

func TestFetchRecoverySendsHalfOpenRange(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/developer/v1/recovery", r.URL.Path)
		assert.Equal(t, "2024-01-02T00:00:00Z", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-01-03T00:00:00Z", r.URL.Query().Get("end"))
		_, _ = w.Write([]byte(`{"records":[{"cycle_id":9183,"created_at":"2024-01-02T06:30:00Z",
			"updated_at":"2024-01-02T06:45:00Z",
			"score":{"recovery_score":67,"hrv_rmssd_milli":52.3,"resting_heart_rate":51}}]}`))
	}))
	defer server.Close()

	transport := New(server.URL, nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceReadiness, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	recovery, ok := rec.(RecoveryRecord)
	require.True(t, ok)
	require.NotNil(t, recovery.Recovery.Score.RecoveryScore)
	assert.Equal(t, float64(67), *recovery.Recovery.Score.RecoveryScore)
	assert.Equal(t, time.Date(2024, 1, 2, 6, 45, 0, 0, time.UTC), rec.ObservedAt())
}

func TestFetchSleepSkipsNaps(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/developer/v1/activity/sleep", r.URL.Path)
		_, _ = w.Write([]byte(`{"records":[
			{"id":2,"start":"2024-01-02T14:00:00Z","end":"2024-01-02T14:40:00Z","nap":true},
			{"id":1,"start":"2024-01-01T23:10:00Z","end":"2024-01-02T06:55:00Z","nap":false,
			 "score":{"sleep_performance_percentage":88,"sleep_efficiency_percentage":94,
			 "stage_summary":{"total_light_sleep_time_milli":14400000,"total_slow_wave_sleep_time_milli":5400000,
			 "total_rem_sleep_time_milli":6600000,"total_awake_time_milli":2100000}}}
		]}`))
	}))
	defer server.Close()

	transport := New(server.URL, nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceSleep, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	sleep, ok := rec.(SleepRecord)
	require.True(t, ok)
	assert.False(t, sleep.Sleep.Nap)
	assert.Equal(t, int64(1), sleep.Sleep.ID)
}

func TestFetchSleepOnlyNapsIsNoData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"id":2,"nap":true}]}`))
	}))
	defer server.Close()

	transport := New(server.URL, nil, 0)
	_, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceSleep, dayWindow(t, "2024-01-02"))
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchCycleParsesStrainScore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/developer/v1/cycle", r.URL.Path)
		_, _ = w.Write([]byte(`{"records":[{"id":42,"start":"2024-01-02T04:00:00Z","end":"2024-01-03T04:00:00Z",
			"score":{"strain":14.2,"kilojoule":9832.5,"average_heart_rate":72}}]}`))
	}))
	defer server.Close()

	transport := New(server.URL, nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceActivity, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	cycle, ok := rec.(CycleRecord)
	require.True(t, ok)
	require.NotNil(t, cycle.Cycle.Score.Kilojoule)
	assert.Equal(t, 9832.5, *cycle.Cycle.Score.Kilojoule)
}

func TestFetchProfileCombinesNames(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/developer/v1/user/profile/basic", r.URL.Path)
		_, _ = w.Write([]byte(`{"first_name":"Alex","last_name":"Rivera"}`))
	}))
	defer server.Close()

	transport := New(server.URL, nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceProfile, domain.QueryWindow{})
	require.NoError(t, err)

	profile, ok := rec.(domain.ProfileRecord)
	require.True(t, ok)
	assert.Equal(t, "Alex Rivera", profile.DisplayName())
}
