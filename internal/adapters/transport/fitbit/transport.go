// Package fitbit speaks the Fitbit Web API: per-date resource endpoints
// under /1/user/-/ and the 1.2 sleep log format with stage summaries.
package fitbit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/vitals-cli/internal/adapters/transport/httpapi"
	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

const DefaultBaseURL = "https://api.fitbit.com"

type Transport struct {
	api httpapi.Client
}

var _ ports.ProviderTransport = (*Transport)(nil)

func New(baseURL string, httpClient *http.Client, requestTimeout time.Duration) *Transport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Transport{api: httpapi.Client{
		BaseURL:        baseURL,
		HTTPClient:     httpClient,
		RequestTimeout: requestTimeout,
	}}
}

func (t *Transport) ID() domain.ProviderID { return domain.ProviderFitbit }

func (t *Transport) MetricResources() []domain.Resource {
	return []domain.Resource{
		domain.ResourceSleep,
		domain.ResourceHeartRate,
		domain.ResourceActivity,
		domain.ResourceHRV,
	}
}

func (t *Transport) Fetch(ctx context.Context, accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error) {
	switch resource {
	case domain.ResourceSleep:
		return t.fetchSleep(ctx, accessToken, window)
	case domain.ResourceHeartRate:
		return t.fetchHeartRate(ctx, accessToken, window)
	case domain.ResourceActivity:
		return t.fetchActivity(ctx, accessToken, window)
	case domain.ResourceHRV:
		return t.fetchHRV(ctx, accessToken, window)
	case domain.ResourceProfile:
		return t.fetchProfile(ctx, accessToken)
	default:
		return nil, fmt.Errorf("fitbit does not serve resource %q", resource)
	}
}

func (t *Transport) fetchSleep(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp sleepResponse
	path := fmt.Sprintf("/1.2/user/-/sleep/date/%s.json", window.StartDate())
	if err := t.api.GetJSON(ctx, path, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	log, ok := mainSleepLog(resp.Sleep)
	if !ok {
		return nil, domain.ErrNoData
	}

	return SleepRecord{Log: log}, nil
}

func (t *Transport) fetchHeartRate(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp heartResponse
	path := fmt.Sprintf("/1/user/-/activities/heart/date/%s/1d.json", window.StartDate())
	if err := t.api.GetJSON(ctx, path, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.ActivitiesHeart) == 0 {
		return nil, domain.ErrNoData
	}

	return HeartRecord{Day: resp.ActivitiesHeart[0]}, nil
}

func (t *Transport) fetchActivity(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp activityResponse
	path := fmt.Sprintf("/1/user/-/activities/date/%s.json", window.StartDate())
	if err := t.api.GetJSON(ctx, path, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	if resp.Summary == nil || (resp.Summary.Steps == nil && resp.Summary.CaloriesOut == nil) {
		return nil, domain.ErrNoData
	}

	return ActivityRecord{Date: window.Start, Summary: *resp.Summary}, nil
}

func (t *Transport) fetchHRV(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp hrvResponse
	path := fmt.Sprintf("/1/user/-/hrv/date/%s.json", window.StartDate())
	if err := t.api.GetJSON(ctx, path, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.HRV) == 0 {
		return nil, domain.ErrNoData
	}

	return HRVRecord{Day: resp.HRV[0]}, nil
}

func (t *Transport) fetchProfile(ctx context.Context, accessToken string) (domain.Record, error) {
	var resp profileResponse
	if err := t.api.GetJSON(ctx, "/1/user/-/profile.json", nil, accessToken, &resp); err != nil {
		return nil, err
	}

	return ProfileRecord{Name: resp.User.DisplayName}, nil
}

// mainSleepLog prefers the log Fitbit flags as the main sleep; among several
// unflagged logs the longest one wins.
func mainSleepLog(logs []SleepLog) (SleepLog, bool) {
	var best SleepLog
	found := false
	for _, log := range logs {
		if log.IsMainSleep {
			return log, true
		}
		if !found || log.Duration > best.Duration {
			best = log
			found = true
		}
	}
	return best, found
}
