package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	authadapter "github.com/bnema/vitals-cli/internal/adapters/auth"
	credstore "github.com/bnema/vitals-cli/internal/adapters/credstore/toml"
	chainstore "github.com/bnema/vitals-cli/internal/adapters/secrets/chain"
	"github.com/bnema/vitals-cli/internal/adapters/transport/fitbit"
	"github.com/bnema/vitals-cli/internal/adapters/transport/oura"
	"github.com/bnema/vitals-cli/internal/adapters/transport/polar"
	"github.com/bnema/vitals-cli/internal/adapters/transport/whoop"
	"github.com/bnema/vitals-cli/internal/application"
	"github.com/bnema/vitals-cli/internal/config"
	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

type app struct {
	cfg        config.Config
	logger     zerolog.Logger
	secrets    ports.SecretStore
	tokens     *application.TokenService
	snapshots  *application.SnapshotService
	exchanger  *authadapter.Exchanger
	httpClient *http.Client
	now        func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	httpClient := http.DefaultClient

	store, err := credstore.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire credential store: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secrets, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, config.DefaultConfigDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	endpoints, err := buildEndpoints(cfg, secrets)
	if err != nil {
		return nil, err
	}

	exchanger := authadapter.NewExchanger(endpoints, httpClient)
	clock := ports.SystemClock{}
	tokens := application.NewTokenService(store, exchanger, clock, logger)
	snapshots := application.NewSnapshotService(tokens, buildTransports(cfg, httpClient), clock, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		secrets:    secrets,
		tokens:     tokens,
		snapshots:  snapshots,
		exchanger:  exchanger,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.WarnLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}

func buildEndpoints(cfg config.Config, secrets ports.SecretStore) (map[domain.ProviderID]authadapter.Endpoint, error) {
	endpoints := make(map[domain.ProviderID]authadapter.Endpoint, len(endpointDefaults))

	for provider, defaults := range endpointDefaults {
		pc := cfg.Provider(provider)

		secret, err := pc.ResolveClientSecret(context.Background(), secrets)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", provider, err)
		}

		endpoint := authadapter.Endpoint{
			AuthURL:      defaults.authURL,
			TokenURL:     defaults.tokenURL,
			ClientID:     pc.ClientID,
			ClientSecret: secret,
			Style:        defaults.style,
			UsePKCE:      defaults.usePKCE,
		}
		if pc.AuthURL != "" {
			endpoint.AuthURL = pc.AuthURL
		}
		if pc.TokenURL != "" {
			endpoint.TokenURL = pc.TokenURL
		}

		endpoints[provider] = endpoint
	}

	return endpoints, nil
}

func buildTransports(cfg config.Config, httpClient *http.Client) map[domain.ProviderID]ports.ProviderTransport {
	timeout := cfg.HTTP.Timeout

	return map[domain.ProviderID]ports.ProviderTransport{
		domain.ProviderFitbit: fitbit.New(cfg.Provider(domain.ProviderFitbit).BaseURL, httpClient, timeout),
		domain.ProviderOura:   oura.New(cfg.Provider(domain.ProviderOura).BaseURL, httpClient, timeout),
		domain.ProviderWhoop:  whoop.New(cfg.Provider(domain.ProviderWhoop).BaseURL, httpClient, timeout),
		domain.ProviderPolar: polar.New(
			cfg.Provider(domain.ProviderPolar).BaseURL,
			cfg.Provider(domain.ProviderPolar).UserID,
			httpClient,
			timeout,
		),
	}
}

// scopesFor returns the configured scopes for a provider, or the vendor
// defaults when the config is silent.
func scopesFor(cfg config.Config, provider domain.ProviderID) []string {
	if scopes := cfg.Provider(provider).Scopes; len(scopes) > 0 {
		return scopes
	}
	return endpointDefaults[provider].scopes
}

func parseProvider(raw string) (domain.ProviderID, error) {
	provider := domain.ProviderID(strings.ToLower(strings.TrimSpace(raw)))
	if !provider.Valid() {
		return "", fmt.Errorf("unknown provider %q (supported: fitbit, oura, whoop, polar)", raw)
	}
	return provider, nil
}

func (a *app) credentialKey(provider domain.ProviderID) domain.CredentialKey {
	return domain.CredentialKey{Provider: provider, UserID: a.cfg.UserID}
}
