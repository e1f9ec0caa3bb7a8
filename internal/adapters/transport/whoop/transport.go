// Package whoop speaks the WHOOP developer API v1: collection endpoints with
// RFC3339 start/end parameters and a records array envelope. Recovery, sleep
// and cycle are separate collections; durations arrive in milliseconds and
// energy in kilojoules.
package whoop

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

const DefaultBaseURL = "https://api.prod.whoop.com"

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

func (t *Transport) ID() domain.ProviderID { return domain.ProviderWhoop }

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
		return t.fetchRecovery(ctx, accessToken, window)
	case domain.ResourceActivity:
		return t.fetchCycle(ctx, accessToken, window)
	case domain.ResourceProfile:
		return t.fetchProfile(ctx, accessToken)
	default:
		return nil, fmt.Errorf("whoop does not serve resource %q", resource)
	}
}

// windowQuery converts the closed date window into WHOOP's half-open
// RFC3339 range: [start of first day, start of the day after the last].
func windowQuery(window domain.QueryWindow) url.Values {
	q := url.Values{}
	q.Set("start", window.Start.UTC().Format(time.RFC3339))
	q.Set("end", window.End.Add(24*time.Hour).UTC().Format(time.RFC3339))
	return q
}

func (t *Transport) fetchRecovery(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp recoveryResponse
	if err := t.api.GetJSON(ctx, "/developer/v1/recovery", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.Records) == 0 {
		return nil, domain.ErrNoData
	}

	return RecoveryRecord{Recovery: resp.Records[0]}, nil
}

func (t *Transport) fetchSleep(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp sleepResponse
	if err := t.api.GetJSON(ctx, "/developer/v1/activity/sleep", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	sleep, ok := mainSleep(resp.Records)
	if !ok {
		return nil, domain.ErrNoData
	}

	return SleepRecord{Sleep: sleep}, nil
}

func (t *Transport) fetchCycle(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp cycleResponse
	if err := t.api.GetJSON(ctx, "/developer/v1/cycle", windowQuery(window), accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.Records) == 0 {
		return nil, domain.ErrNoData
	}

	return CycleRecord{Cycle: resp.Records[0]}, nil
}

func (t *Transport) fetchProfile(ctx context.Context, accessToken string) (domain.Record, error) {
	var resp profileResponse
	if err := t.api.GetJSON(ctx, "/developer/v1/user/profile/basic", nil, accessToken, &resp); err != nil {
		return nil, err
	}

	return ProfileRecord{FirstName: resp.FirstName, LastName: resp.LastName}, nil
}

// mainSleep skips nap records; WHOOP returns newest first, so the first
// non-nap entry is the night's sleep.
func mainSleep(records []Sleep) (Sleep, bool) {
	for _, record := range records {
		if !record.Nap {
			return record, true
		}
	}
	return Sleep{}, false
}
