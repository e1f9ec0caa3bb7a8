package ports

import (
	"context"

	"github.com/bnema/vitals-cli/internal/domain"
)

// CredentialStore persists OAuth2 token material keyed by (provider, user).
// Get returns domain.ErrCredentialMissing when no entry exists. Encryption
// at rest is the store's concern, not the callers'.
type CredentialStore interface {
	Get(ctx context.Context, key domain.CredentialKey) (domain.Credential, error)
	Put(ctx context.Context, credential domain.Credential) error
	Delete(ctx context.Context, key domain.CredentialKey) error
}
