// Package polar speaks the Polar AccessLink v3 API. Sleep and nightly
// recharge are list endpoints without date filters, so the window is applied
// client-side on the record date. The profile endpoint needs the numeric
// AccessLink user id issued at registration.
package polar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/vitals-cli/internal/adapters/transport/httpapi"
	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

const DefaultBaseURL = "https://www.polaraccesslink.com"

type Transport struct {
	api    httpapi.Client
	userID string
}

var _ ports.ProviderTransport = (*Transport)(nil)

func New(baseURL, userID string, httpClient *http.Client, requestTimeout time.Duration) *Transport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Transport{
		api: httpapi.Client{
			BaseURL:        baseURL,
			HTTPClient:     httpClient,
			RequestTimeout: requestTimeout,
		},
		userID: userID,
	}
}

func (t *Transport) ID() domain.ProviderID { return domain.ProviderPolar }

func (t *Transport) MetricResources() []domain.Resource {
	return []domain.Resource{
		domain.ResourceSleep,
		domain.ResourceReadiness,
		domain.ResourceHeartRate,
	}
}

func (t *Transport) Fetch(ctx context.Context, accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error) {
	switch resource {
	case domain.ResourceSleep:
		return t.fetchSleep(ctx, accessToken, window)
	case domain.ResourceReadiness:
		return t.fetchRecharge(ctx, accessToken, window)
	case domain.ResourceHeartRate:
		return t.fetchContinuousHeartRate(ctx, accessToken, window)
	case domain.ResourceProfile:
		return t.fetchProfile(ctx, accessToken)
	default:
		return nil, fmt.Errorf("polar does not serve resource %q", resource)
	}
}

func (t *Transport) fetchSleep(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp sleepResponse
	if err := t.api.GetJSON(ctx, "/v3/users/sleep", nil, accessToken, &resp); err != nil {
		return nil, err
	}

	night, ok := nightForDate(resp.Nights, window.EndDate())
	if !ok {
		return nil, domain.ErrNoData
	}

	return SleepRecord{Night: night}, nil
}

func (t *Transport) fetchRecharge(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp rechargeResponse
	if err := t.api.GetJSON(ctx, "/v3/users/nightly-recharge", nil, accessToken, &resp); err != nil {
		return nil, err
	}

	for _, recharge := range resp.Recharges {
		if recharge.Date == window.EndDate() {
			return RechargeRecord{Recharge: recharge}, nil
		}
	}

	return nil, domain.ErrNoData
}

func (t *Transport) fetchContinuousHeartRate(ctx context.Context, accessToken string, window domain.QueryWindow) (domain.Record, error) {
	var resp continuousHeartRate
	path := "/v3/users/continuous-heart-rate/" + window.EndDate()
	if err := t.api.GetJSON(ctx, path, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	if len(resp.HeartRates) == 0 {
		return nil, domain.ErrNoData
	}

	return HeartRateRecord{Day: resp}, nil
}

func (t *Transport) fetchProfile(ctx context.Context, accessToken string) (domain.Record, error) {
	if t.userID == "" {
		return nil, fmt.Errorf("polar profile lookup needs an accesslink user id")
	}

	var resp userResponse
	if err := t.api.GetJSON(ctx, "/v3/users/"+t.userID, nil, accessToken, &resp); err != nil {
		return nil, err
	}

	return ProfileRecord{FirstName: resp.FirstName, LastName: resp.LastName}, nil
}

// nightForDate matches on the night's date field. The list endpoint returns
// roughly a month of nights regardless of any query parameters.
func nightForDate(nights []SleepNight, date string) (SleepNight, bool) {
	for _, night := range nights {
		if night.Date == date {
			return night, true
		}
	}
	return SleepNight{}, false
}
