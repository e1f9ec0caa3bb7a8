package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

type memStore struct {
	mu          sync.Mutex
	credentials map[domain.CredentialKey]domain.Credential
	getCalls    int
}

func newMemStore() *memStore {
	return &memStore{credentials: map[domain.CredentialKey]domain.Credential{}}
}

func (s *memStore) Get(ctx context.Context, key domain.CredentialKey) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	credential, ok := s.credentials[key]
	if !ok {
		return domain.Credential{}, fmt.Errorf("%s: %w", key, domain.ErrCredentialMissing)
	}
	return credential, nil
}

func (s *memStore) Put(ctx context.Context, credential domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[domain.CredentialKey{Provider: credential.Provider, UserID: credential.UserID}] = credential
	return nil
}

func (s *memStore) Delete(ctx context.Context, key domain.CredentialKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, key)
	return nil
}

type fakeExchanger struct {
	mu           sync.Mutex
	exchangeFn   func(provider domain.ProviderID, code string) (domain.TokenGrant, error)
	refreshFn    func(provider domain.ProviderID, refreshToken string) (domain.TokenGrant, error)
	refreshCalls int
}

func (e *fakeExchanger) ExchangeCode(ctx context.Context, provider domain.ProviderID, code, redirectURI, codeVerifier string) (domain.TokenGrant, error) {
	if e.exchangeFn == nil {
		return domain.TokenGrant{}, fmt.Errorf("unexpected exchange for %s", provider)
	}
	return e.exchangeFn(provider, code)
}

func (e *fakeExchanger) Refresh(ctx context.Context, provider domain.ProviderID, refreshToken string) (domain.TokenGrant, error) {
	e.mu.Lock()
	e.refreshCalls++
	e.mu.Unlock()
	if e.refreshFn == nil {
		return domain.TokenGrant{}, fmt.Errorf("unexpected refresh for %s", provider)
	}

	// Widen the race window so concurrent callers pile up behind the
	// single-flight group instead of finishing sequentially.
	time.Sleep(10 * time.Millisecond)
	return e.refreshFn(provider, refreshToken)
}

func (e *fakeExchanger) refreshCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshCalls
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeTransport struct {
	id        domain.ProviderID
	resources []domain.Resource
	mu        sync.Mutex
	fetchFn   func(accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error)
	fetches   int
}

var _ ports.ProviderTransport = (*fakeTransport)(nil)

func (t *fakeTransport) ID() domain.ProviderID { return t.id }

func (t *fakeTransport) MetricResources() []domain.Resource { return t.resources }

func (t *fakeTransport) Fetch(ctx context.Context, accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error) {
	t.mu.Lock()
	t.fetches++
	t.mu.Unlock()
	return t.fetchFn(accessToken, resource, window)
}

func (t *fakeTransport) fetchCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetches
}

// stubRecord carries one metric value with an explicit observation time.
type stubRecord struct {
	value      float64
	observedAt time.Time
}

func (r stubRecord) ObservedAt() time.Time { return r.observedAt }

type stubProfile struct {
	name string
}

func (r stubProfile) ObservedAt() time.Time { return time.Time{} }

func (r stubProfile) DisplayName() string { return r.name }

// Normalize maps each resource's stub value onto a distinct snapshot field
// so tests can tell which record won.
func (t *fakeTransport) Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot {
	var snap domain.TrackerSnapshot
	for resource, record := range records {
		stub, ok := record.(stubRecord)
		if !ok {
			continue
		}
		value := stub.value
		switch resource {
		case domain.ResourceSleep:
			snap.Sleep = &domain.SleepSummary{DurationHours: &value}
		case domain.ResourceReadiness:
			snap.Recovery = &value
		case domain.ResourceActivity:
			snap.CaloriesOut = &value
		case domain.ResourceHeartRate:
			snap.HeartRate = &value
		}
		if stub.observedAt.After(snap.CapturedAt) {
			snap.CapturedAt = stub.observedAt
		}
	}
	return snap
}
