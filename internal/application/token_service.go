package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

// refreshSkew treats a token expiring within this margin as already expired,
// so a token never dies mid-aggregation.
const refreshSkew = 30 * time.Second

// TokenService owns the credential lifecycle: connect, transparent refresh
// and disconnect. Concurrent refreshes for the same (provider, user) pair
// collapse into a single token-endpoint call.
type TokenService struct {
	store     ports.CredentialStore
	exchanger ports.TokenExchanger
	clock     ports.Clock
	logger    zerolog.Logger
	refreshes singleflight.Group
}

func NewTokenService(store ports.CredentialStore, exchanger ports.TokenExchanger, clock ports.Clock, logger zerolog.Logger) *TokenService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TokenService{
		store:     store,
		exchanger: exchanger,
		clock:     clock,
		logger:    logger,
	}
}

// Connect exchanges a fresh authorization code and stores the resulting
// credential. The code is single-use; a failed exchange is never retried.
func (s *TokenService) Connect(ctx context.Context, key domain.CredentialKey, code, redirectURI, codeVerifier string) (domain.Credential, error) {
	grant, err := s.exchanger.ExchangeCode(ctx, key.Provider, code, redirectURI, codeVerifier)
	if err != nil {
		return domain.Credential{}, err
	}

	credential := grant.Bind(key, "", s.clock.Now())
	if err := s.store.Put(ctx, credential); err != nil {
		return domain.Credential{}, fmt.Errorf("store credential: %w", err)
	}

	s.logger.Info().
		Str("provider", string(key.Provider)).
		Str("user", key.UserID).
		Time("expires_at", credential.ExpiresAt).
		Msg("tracker connected")

	return credential, nil
}

// Disconnect removes the stored credential. Removing an absent credential is
// not an error.
func (s *TokenService) Disconnect(ctx context.Context, key domain.CredentialKey) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	s.logger.Info().
		Str("provider", string(key.Provider)).
		Str("user", key.UserID).
		Msg("tracker disconnected")

	return nil
}

// Credential returns the stored credential without touching the network.
func (s *TokenService) Credential(ctx context.Context, key domain.CredentialKey) (domain.Credential, error) {
	return s.store.Get(ctx, key)
}

// EnsureValidToken returns a credential whose access token is usable now. A
// still-valid token involves no network traffic; an expired one is refreshed
// exactly once no matter how many goroutines ask concurrently.
func (s *TokenService) EnsureValidToken(ctx context.Context, key domain.CredentialKey) (domain.Credential, error) {
	credential, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.Credential{}, err
	}

	if credential.ValidAt(s.clock.Now().Add(refreshSkew)) {
		return credential, nil
	}

	return s.refresh(ctx, key, false)
}

// RefreshNow rotates the token pair regardless of the current token's
// remaining lifetime.
func (s *TokenService) RefreshNow(ctx context.Context, key domain.CredentialKey) (domain.Credential, error) {
	return s.refresh(ctx, key, true)
}

func (s *TokenService) refresh(ctx context.Context, key domain.CredentialKey, force bool) (domain.Credential, error) {
	value, err, _ := s.refreshes.Do(key.String(), func() (any, error) {
		credential, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		// A follower that queued behind a finished refresh sees the
		// rotated credential here and skips the endpoint entirely.
		if !force && credential.ValidAt(s.clock.Now().Add(refreshSkew)) {
			return credential, nil
		}

		grant, err := s.exchanger.Refresh(ctx, key.Provider, credential.RefreshToken)
		if err != nil {
			if errors.Is(err, domain.ErrRefreshFailed) {
				s.revoke(ctx, key)
			}
			return nil, err
		}

		rotated := grant.Bind(key, credential.RefreshToken, s.clock.Now())
		if err := s.store.Put(ctx, rotated); err != nil {
			return nil, fmt.Errorf("store rotated credential: %w", err)
		}

		s.logger.Debug().
			Str("provider", string(key.Provider)).
			Str("user", key.UserID).
			Time("expires_at", rotated.ExpiresAt).
			Msg("access token refreshed")

		return rotated, nil
	})
	if err != nil {
		return domain.Credential{}, err
	}

	return value.(domain.Credential), nil
}

// revoke destroys a credential whose refresh token the vendor rejected.
// Later calls for the pair fail fast with domain.ErrCredentialMissing
// instead of hammering the token endpoint.
func (s *TokenService) revoke(ctx context.Context, key domain.CredentialKey) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", string(key.Provider)).
			Str("user", key.UserID).
			Msg("failed to remove revoked credential")
		return
	}

	s.logger.Warn().
		Str("provider", string(key.Provider)).
		Str("user", key.UserID).
		Msg("credential revoked, reconnect required")
}
