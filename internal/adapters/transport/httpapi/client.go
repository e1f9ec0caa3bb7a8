// Package httpapi is the shared wire plumbing for the vendor transports:
// bearer-token GETs, bounded response bodies, and the mapping from vendor
// HTTP statuses to the domain's transport error taxonomy.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bnema/vitals-cli/internal/domain"
)

const maxResponseBytes = 1 << 20

// Client performs JSON GETs against one vendor's API host.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// GetJSON fetches path with the given query and bearer token, decoding the
// body into out. Status classification:
//
//	401/403        -> *domain.TransportError{Kind: unauthorized}
//	429            -> *domain.TransportError{Kind: rate_limited} (+ Retry-After hint)
//	404            -> domain.ErrNoData
//	5xx, bad body  -> *domain.TransportError{Kind: upstream_error}
func (c Client) GetJSON(ctx context.Context, path string, query url.Values, accessToken string, out any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := classifyStatus(resp, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.TransportError{
			Kind:       domain.KindUpstreamError,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
		}
	}

	return nil
}

func classifyStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &domain.TransportError{
			Kind:       domain.KindUnauthorized,
			StatusCode: resp.StatusCode,
			Message:    trimmedBody(body),
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &domain.TransportError{
			Kind:       domain.KindRateLimited,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfterHint(resp),
			Message:    trimmedBody(body),
		}
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNoData
	default:
		return &domain.TransportError{
			Kind:       domain.KindUpstreamError,
			StatusCode: resp.StatusCode,
			Message:    trimmedBody(body),
		}
	}
}

// retryAfterHint parses the Retry-After header; not every vendor sends one.
func retryAfterHint(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}

	return 0
}

func (c Client) buildURL(path string, query url.Values) (string, error) {
	if c.BaseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func trimmedBody(body []byte) string {
	const maxMessage = 256
	s := string(body)
	if len(s) > maxMessage {
		s = s[:maxMessage]
	}
	return s
}
