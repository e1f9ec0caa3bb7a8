package polar

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

func TestFetchSleepFiltersListToWindowDate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/users/sleep", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"nights":[
			{"date":"2024-01-01","light_sleep":10000,"deep_sleep":5000,"rem_sleep":4000,"sleep_score":70},
			{"date":"2024-01-02","sleep_start_time":"2024-01-01T23:05:00Z","sleep_end_time":"2024-01-02T06:50:00Z",
			 "light_sleep":14400,"deep_sleep":5400,"rem_sleep":6600,"sleep_score":83}
		]}`))
	}))
	defer server.Close()

	transport := New(server.URL, "", nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceSleep, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	sleep, ok := rec.(SleepRecord)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", sleep.Night.Date)
	assert.Equal(t, time.Date(2024, 1, 2, 6, 50, 0, 0, time.UTC), rec.ObservedAt())
}

func TestFetchSleepMissingDateIsNoData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"nights":[{"date":"2023-12-25"}]}`))
	}))
	defer server.Close()

	transport := New(server.URL, "", nil, 0)
	_, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceSleep, dayWindow(t, "2024-01-02"))
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchRechargeMatchesDate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/users/nightly-recharge", r.URL.Path)
		_, _ = w.Write([]byte(`{"recharges":[
			{"date":"2024-01-02","heart_rate_avg":53.5,"heart_rate_variability_avg":48,"nightly_recharge_status":4}
		]}`))
	}))
	defer server.Close()

	transport := New(server.URL, "", nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceReadiness, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	recharge, ok := rec.(RechargeRecord)
	require.True(t, ok)
	require.NotNil(t, recharge.Recharge.HeartRateVariabilityAvg)
	assert.Equal(t, float64(48), *recharge.Recharge.HeartRateVariabilityAvg)
}

func TestFetchContinuousHeartRateUsesDatePath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/users/continuous-heart-rate/2024-01-02", r.URL.Path)
		_, _ = w.Write([]byte(`{"date":"2024-01-02","heart_rates":[
			{"sample_time":"08:00:00","heart_rate":60},
			{"sample_time":"12:00:00","heart_rate":80}
		]}`))
	}))
	defer server.Close()

	transport := New(server.URL, "", nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceHeartRate, dayWindow(t, "2024-01-02"))
	require.NoError(t, err)

	hr, ok := rec.(HeartRateRecord)
	require.True(t, ok)
	assert.Len(t, hr.Day.HeartRates, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), rec.ObservedAt())
}

func TestFetchContinuousHeartRateEmptyIsNoData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"date":"2024-01-02","heart_rates":[]}`))
	}))
	defer server.Close()

	transport := New(server.URL, "", nil, 0)
	_, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceHeartRate, dayWindow(t, "2024-01-02"))
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchProfileRequiresUserID(t *testing.T) {
	t.Parallel()

	transport := New("http://localhost:0", "", nil, 0)
	_, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceProfile, domain.QueryWindow{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user id")
}

func TestFetchProfileUsesRegisteredUserID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/users/7716", r.URL.Path)
		_, _ = w.Write([]byte(`{"polar-user-id":7716,"first-name":"Maija","last-name":"Virtanen"}`))
	}))
	defer server.Close()

	transport := New(server.URL, "7716", nil, 0)
	rec, err := transport.Fetch(context.Background(), "token-abc", domain.ResourceProfile, domain.QueryWindow{})
	require.NoError(t, err)

	profile, ok := rec.(domain.ProfileRecord)
	require.True(t, ok)
	assert.Equal(t, "Maija Virtanen", profile.DisplayName())
}
