package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

// Exchanger adapts the raw token-endpoint calls to the application port,
// routing each provider to its registered Endpoint and translating failures
// into domain sentinels.
type Exchanger struct {
	endpoints map[domain.ProviderID]Endpoint
	client    *http.Client
}

var _ ports.TokenExchanger = (*Exchanger)(nil)

func NewExchanger(endpoints map[domain.ProviderID]Endpoint, client *http.Client) *Exchanger {
	return &Exchanger{endpoints: endpoints, client: client}
}

// Endpoint returns the registered endpoint for a provider; command wiring
// uses it to build authorization URLs.
func (e *Exchanger) Endpoint(provider domain.ProviderID) (Endpoint, bool) {
	ep, ok := e.endpoints[provider]
	return ep, ok
}

func (e *Exchanger) ExchangeCode(ctx context.Context, provider domain.ProviderID, code, redirectURI, codeVerifier string) (domain.TokenGrant, error) {
	ep, ok := e.endpoints[provider]
	if !ok {
		return domain.TokenGrant{}, fmt.Errorf("no oauth endpoint registered for provider %q", provider)
	}

	tokens, err := ExchangeCode(ctx, e.client, ep, code, redirectURI, codeVerifier)
	if err != nil {
		return domain.TokenGrant{}, fmt.Errorf("%w: %w", domain.ErrAuthExchangeFailed, err)
	}

	return toGrant(tokens), nil
}

func (e *Exchanger) Refresh(ctx context.Context, provider domain.ProviderID, refreshToken string) (domain.TokenGrant, error) {
	ep, ok := e.endpoints[provider]
	if !ok {
		return domain.TokenGrant{}, fmt.Errorf("no oauth endpoint registered for provider %q", provider)
	}

	tokens, err := Refresh(ctx, e.client, ep, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidGrant) {
			return domain.TokenGrant{}, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
		}
		return domain.TokenGrant{}, fmt.Errorf("refresh tokens: %w", err)
	}

	return toGrant(tokens), nil
}

func toGrant(tokens Tokens) domain.TokenGrant {
	return domain.TokenGrant{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Scope:        tokens.Scope,
		ExpiresIn:    time.Duration(tokens.ExpiresIn) * time.Second,
	}
}
