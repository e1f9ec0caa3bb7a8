package ports

import "context"

// SecretStore resolves and manages named secrets, used for OAuth client
// secrets that should not sit in the config file in plaintext.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
