package ports

import (
	"context"

	"github.com/bnema/vitals-cli/internal/domain"
)

// TokenExchanger talks to a provider's OAuth2 token endpoint.
//
// ExchangeCode failures wrap domain.ErrAuthExchangeFailed; codes are
// single-use so callers must not retry. Refresh failures that mean the grant
// itself is dead wrap domain.ErrRefreshFailed; transient failures do not.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, provider domain.ProviderID, code, redirectURI, codeVerifier string) (domain.TokenGrant, error)
	Refresh(ctx context.Context, provider domain.ProviderID, refreshToken string) (domain.TokenGrant, error)
}
