// Package config loads the CLI configuration from ~/.vitals/config.toml and
// VITALS_* environment variables. Vendor endpoint URLs have built-in
// defaults; only client registrations are mandatory, and those only for the
// providers the user actually connects.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "VITALS"

	DefaultConfigDir = ".vitals"
)

type Config struct {
	// UserID names the local profile; credentials are keyed by
	// (provider, user_id) so one machine can hold several people's tokens.
	UserID    string              `mapstructure:"user_id"`
	LogLevel  string              `mapstructure:"log_level"`
	HTTP      HTTP                `mapstructure:"http"`
	Callback  Callback            `mapstructure:"callback"`
	Providers map[string]Provider `mapstructure:"providers"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Callback configures the loopback server that catches the OAuth redirect.
type Callback struct {
	Listen  string        `mapstructure:"listen"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Provider struct {
	ClientID string `mapstructure:"client_id"`
	// ClientSecret holds the secret inline; ClientSecretRef points at an
	// entry in the secret store instead and wins when both are set.
	ClientSecret    string   `mapstructure:"client_secret"`
	ClientSecretRef string   `mapstructure:"client_secret_ref"`
	BaseURL         string   `mapstructure:"base_url"`
	AuthURL         string   `mapstructure:"auth_url"`
	TokenURL        string   `mapstructure:"token_url"`
	Scopes          []string `mapstructure:"scopes"`
	// UserID is provider-specific identity material, e.g. the numeric
	// AccessLink user id Polar issues at registration.
	UserID string `mapstructure:"user_id"`
}

// ResolveClientSecret returns the secret inline or via the store reference.
func (p Provider) ResolveClientSecret(ctx context.Context, secrets ports.SecretStore) (string, error) {
	if p.ClientSecretRef == "" {
		return p.ClientSecret, nil
	}
	if secrets == nil {
		return "", errors.New("client_secret_ref set but no secret store available")
	}

	value, err := secrets.Get(ctx, p.ClientSecretRef)
	if err != nil {
		return "", fmt.Errorf("resolve client secret %q: %w", p.ClientSecretRef, err)
	}

	return value, nil
}

// Provider returns the configuration block for one provider; a missing block
// yields a zero value so endpoint defaults still apply.
func (c Config) Provider(id domain.ProviderID) Provider {
	return c.Providers[string(id)]
}

func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	// An explicitly configured file wins; SetConfigName would discard it.
	if v.ConfigFileUsed() == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}

		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_id", "me")
	v.SetDefault("log_level", "warn")
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("callback.listen", "127.0.0.1:8910")
	v.SetDefault("callback.timeout", "5m")
}
