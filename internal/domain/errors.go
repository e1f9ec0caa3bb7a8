package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCredentialMissing means no stored Credential exists for the pair;
	// the user must (re-)authorize the provider.
	ErrCredentialMissing = errors.New("credential not found")
	// ErrAuthExchangeFailed means the authorization code was rejected.
	// Codes are single-use, so the exchange is never retried.
	ErrAuthExchangeFailed = errors.New("authorization code exchange failed")
	// ErrRefreshFailed means the refresh token was rejected; the Credential
	// is revoked and the user must re-authorize.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoData is a legitimately empty result for the queried period,
	// not a failure.
	ErrNoData = errors.New("no data for period")
)

// ErrorKind classifies a sub-resource failure in an AggregationOutcome.
type ErrorKind string

const (
	KindUnauthorized  ErrorKind = "unauthorized"
	KindRateLimited   ErrorKind = "rate_limited"
	KindUpstreamError ErrorKind = "upstream_error"
	KindTimeout       ErrorKind = "timeout"
)

// TransportError is a classified failure from one vendor call.
type TransportError struct {
	Kind       ErrorKind
	StatusCode int
	// RetryAfter is the vendor's throttle hint, zero when absent. Nothing in
	// this layer retries on it; the caller owns backoff policy.
	RetryAfter time.Duration
	Message    string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
}

// AsTransportError unwraps err to a TransportError if one is in the chain.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
