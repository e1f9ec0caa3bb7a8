package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

// SnapshotService fans out over a provider's sub-resources, tolerates
// partial failure, and folds whatever arrived into one canonical snapshot.
type SnapshotService struct {
	tokens     *TokenService
	transports map[domain.ProviderID]ports.ProviderTransport
	clock      ports.Clock
	logger     zerolog.Logger
}

func NewSnapshotService(tokens *TokenService, transports map[domain.ProviderID]ports.ProviderTransport, clock ports.Clock, logger zerolog.Logger) *SnapshotService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SnapshotService{
		tokens:     tokens,
		transports: transports,
		clock:      clock,
		logger:     logger,
	}
}

// Providers lists the provider ids with a registered transport.
func (s *SnapshotService) Providers() []domain.ProviderID {
	providers := make([]domain.ProviderID, 0, len(s.transports))
	for _, id := range domain.AllProviders() {
		if _, ok := s.transports[id]; ok {
			providers = append(providers, id)
		}
	}
	return providers
}

type fetchResult struct {
	resource domain.Resource
	window   domain.QueryWindow
	record   domain.Record
	err      error
}

// Snapshot queries every metric resource for today and yesterday
// concurrently, waits for all of them, and normalizes the freshest record
// per resource. One resource failing never aborts the others; an
// unauthorized response triggers exactly one refresh-and-retry round. A
// refresh the vendor rejects revokes the credential and fails the whole
// call with domain.ErrRefreshFailed.
//
// The returned outcome carries a nil snapshot only when every resource
// failed. Empty vendor data is not a failure: all resources reporting no
// data yields a non-nil, empty snapshot.
func (s *SnapshotService) Snapshot(ctx context.Context, key domain.CredentialKey) (domain.AggregationOutcome, error) {
	transport, ok := s.transports[key.Provider]
	if !ok {
		return domain.AggregationOutcome{}, fmt.Errorf("no transport registered for provider %q", key.Provider)
	}

	credential, err := s.tokens.EnsureValidToken(ctx, key)
	if err != nil {
		return domain.AggregationOutcome{}, err
	}

	today := domain.DayWindow(s.clock.Now())
	windows := []domain.QueryWindow{today, today.Previous()}
	resources := transport.MetricResources()

	results := s.fetchAll(ctx, transport, credential.AccessToken, resources, windows)

	if kept, retryable := splitUnauthorized(results); len(retryable) > 0 {
		refreshed, refreshErr := s.tokens.RefreshNow(ctx, key)
		switch {
		case refreshErr == nil:
			results = append(kept, s.retryUnauthorized(ctx, transport, refreshed.AccessToken, retryable)...)
		case errors.Is(refreshErr, domain.ErrRefreshFailed):
			// The credential is revoked; the caller must re-authorize now,
			// not discover it on the next run.
			return domain.AggregationOutcome{}, refreshErr
		default:
			// Transient refresh trouble: report what the first round got.
			s.logger.Warn().
				Err(refreshErr).
				Str("provider", string(key.Provider)).
				Msg("refresh after unauthorized response failed")
		}
	}

	records, resourceErrors := collectResults(results)
	for resource, kind := range resourceErrors {
		s.logger.Debug().
			Str("provider", string(key.Provider)).
			Str("resource", string(resource)).
			Str("kind", string(kind)).
			Msg("resource fetch failed")
	}

	outcome := domain.AggregationOutcome{ResourceErrors: resourceErrors}
	if len(records) == 0 && len(resourceErrors) > 0 {
		return outcome, nil
	}

	snapshot := transport.Normalize(records)
	outcome.Snapshot = &snapshot
	return outcome, nil
}

// VerifyProfile fetches the provider's profile resource as a cheap
// connectivity check, retrying once through a refresh on an unauthorized
// response. It returns the account's display name.
func (s *SnapshotService) VerifyProfile(ctx context.Context, key domain.CredentialKey) (string, error) {
	transport, ok := s.transports[key.Provider]
	if !ok {
		return "", fmt.Errorf("no transport registered for provider %q", key.Provider)
	}

	credential, err := s.tokens.EnsureValidToken(ctx, key)
	if err != nil {
		return "", err
	}

	record, err := transport.Fetch(ctx, credential.AccessToken, domain.ResourceProfile, domain.QueryWindow{})
	if err != nil && isUnauthorized(err) {
		refreshed, refreshErr := s.tokens.RefreshNow(ctx, key)
		if refreshErr != nil {
			return "", refreshErr
		}
		record, err = transport.Fetch(ctx, refreshed.AccessToken, domain.ResourceProfile, domain.QueryWindow{})
	}
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}

	profile, ok := record.(domain.ProfileRecord)
	if !ok {
		return "", fmt.Errorf("provider %q returned no profile record", key.Provider)
	}

	return profile.DisplayName(), nil
}

func (s *SnapshotService) fetchAll(ctx context.Context, transport ports.ProviderTransport, accessToken string, resources []domain.Resource, windows []domain.QueryWindow) []fetchResult {
	results := make([]fetchResult, len(resources)*len(windows))

	var wg sync.WaitGroup
	for i, resource := range resources {
		for j, window := range windows {
			wg.Add(1)
			go func(slot int, resource domain.Resource, window domain.QueryWindow) {
				defer wg.Done()
				record, err := transport.Fetch(ctx, accessToken, resource, window)
				results[slot] = fetchResult{resource: resource, window: window, record: record, err: err}
			}(i*len(windows)+j, resource, window)
		}
	}
	wg.Wait()

	return results
}

func (s *SnapshotService) retryUnauthorized(ctx context.Context, transport ports.ProviderTransport, accessToken string, targets []fetchResult) []fetchResult {
	results := make([]fetchResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(slot int, target fetchResult) {
			defer wg.Done()
			record, err := transport.Fetch(ctx, accessToken, target.resource, target.window)
			results[slot] = fetchResult{resource: target.resource, window: target.window, record: record, err: err}
		}(i, target)
	}
	wg.Wait()

	return results
}

func splitUnauthorized(results []fetchResult) (kept, retryable []fetchResult) {
	for _, result := range results {
		if result.err != nil && isUnauthorized(result.err) {
			retryable = append(retryable, result)
			continue
		}
		kept = append(kept, result)
	}
	return kept, retryable
}

// collectResults keeps, per resource, the record with the latest internal
// observation timestamp. Which query window produced a record is irrelevant:
// a late-arriving record for the previous day can outrank a stale one from
// today.
func collectResults(results []fetchResult) (map[domain.Resource]domain.Record, map[domain.Resource]domain.ErrorKind) {
	records := make(map[domain.Resource]domain.Record)
	failures := make(map[domain.Resource]domain.ErrorKind)

	for _, result := range results {
		if result.err != nil {
			if errors.Is(result.err, domain.ErrNoData) {
				continue
			}
			if _, seen := failures[result.resource]; !seen {
				failures[result.resource] = classifyError(result.err)
			}
			continue
		}
		if result.record == nil {
			continue
		}

		current, exists := records[result.resource]
		if !exists || result.record.ObservedAt().After(current.ObservedAt()) {
			records[result.resource] = result.record
		}
	}

	// A resource that produced any record did not fail.
	for resource := range records {
		delete(failures, resource)
	}
	if len(failures) == 0 {
		failures = nil
	}

	return records, failures
}

func classifyError(err error) domain.ErrorKind {
	if te, ok := domain.AsTransportError(err); ok {
		return te.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.KindTimeout
	}
	return domain.KindUpstreamError
}

func isUnauthorized(err error) bool {
	te, ok := domain.AsTransportError(err)
	return ok && te.Kind == domain.KindUnauthorized
}
