// Package oura speaks the Oura API v2 usercollection endpoints, which take
// start_date/end_date query parameters and wrap everything in a data array.
package oura

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/vitals-cli/internal/adapters/transport/httpapi"
	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

const DefaultBaseURL = "https://api.ouraring.com"

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

func (t *Transport) ID() domain.ProviderID { return domain.ProviderOura }

func (t *Transport) MetricResources() []domain.Resource {
	return []domain.Resource{
		domain.ResourceSleep,
		domain.ResourceReadiness,
		domain.ResourceActivity,
	}
}

func (t *Transport) Fetch(ctx context.Context, accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error) {
	switch resource {
	case domain.ResourceSleep:
		return t.fetchSleep(ctx, accessToken, window)
	case domain.ResourceReadiness:
		return t.fetchReadiness(ctx, accessToken, window)
	case domain.ResourceActivity:
		return t.fetchActivity(ctx, accessToken, window)
	case domain.ResourceProfile:
		return t.fetchProfile(ctx, accessToken)
	default:
		return nil, fmt.Errorf("oura does not serve resource %q", resource)
	}
}

func windowQuery(window domain.QueryWindow) url.Values {
	q := url.Values{}
	q.Set("start_date", window.StartDate())
	q.Set("end_date", window.EndDate())
	return q
}

func (t *Transport) fetchSleep(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp sleepResponse
	if err := t.api.GetJSON(ctx, "/v2/usercollection/sleep", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	session, ok := longestSession(resp.Data)
	if !ok {
		return nil, domain.ErrNoData
	}

	return SleepRecord{Session: session}, nil
}

func (t *Transport) fetchReadiness(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp readinessResponse
	if err := t.api.GetJSON(ctx, "/v2/usercollection/daily_readiness", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, domain.ErrNoData
	}

	return ReadinessRecord{Day: resp.Data[len(resp.Data)-1]}, nil
}

func (t *Transport) fetchActivity(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp activityResponse
	if err := t.api.GetJSON(ctx, "/v2/usercollection/daily_activity", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, domain.ErrNoData
	}

	return ActivityRecord{Day: resp.Data[len(resp.Data)-1]}, nil
}

func (t *Transport) fetchProfile(ctx context.Context, accessToken string) (domain.Record, error) {
	var resp personalInfoResponse
	if err := t.api.GetJSON(ctx, "/v2/usercollection/personal_info", nil, accessToken, &resp); err != nil {
		return nil, err
	}

	return ProfileRecord{Email: resp.Email}, nil
}

// longestSession picks the night's main sleep: Oura logs naps as separate
// sessions in the same day window.
func longestSession(sessions []SleepSession) (SleepSession, bool) {
	var best SleepSession
	found := false
	for _, session := range sessions {
		if !found || session.TotalSleepDuration > best.TotalSleepDuration {
			best = session
			found = true
		}
	}
	return best, found
}
