package domain

import "time"

// Credential holds the OAuth2 token material for one (provider, user) pair.
// It is owned by the token service: only code exchange and refresh mutate it,
// and an explicit disconnect or an irrecoverable refresh failure destroys it.
type Credential struct {
	Provider     ProviderID
	UserID       string
	AccessToken  string
	RefreshToken string
	Scope        string
	ObtainedAt   time.Time
	// ExpiresAt is always derived as ObtainedAt + the vendor's expires_in.
	ExpiresAt time.Time
}

// ValidAt reports whether the access token is still usable at the given
// instant. A zero ExpiresAt means the vendor supplied no expiry; such
// tokens are treated as valid until the vendor rejects them.
func (c Credential) ValidAt(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.ExpiresAt)
}

// TokenGrant is the outcome of a successful token-endpoint call, before it
// is bound to a (provider, user) pair.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	// ExpiresIn is the vendor's advertised lifetime, zero when absent.
	ExpiresIn time.Duration
}

// Bind turns a grant into a stored Credential. A vendor that omits the
// rotated refresh token keeps the previous one.
func (g TokenGrant) Bind(key CredentialKey, previousRefreshToken string, now time.Time) Credential {
	credential := Credential{
		Provider:     key.Provider,
		UserID:       key.UserID,
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		Scope:        g.Scope,
		ObtainedAt:   now,
	}
	if credential.RefreshToken == "" {
		credential.RefreshToken = previousRefreshToken
	}
	if g.ExpiresIn > 0 {
		credential.ExpiresAt = now.Add(g.ExpiresIn)
	}
	return credential
}

// CredentialKey addresses one Credential in the store.
type CredentialKey struct {
	Provider ProviderID
	UserID   string
}

func (k CredentialKey) String() string {
	return string(k.Provider) + "/" + k.UserID
}
