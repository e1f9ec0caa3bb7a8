// Package toml persists tracker credentials in a TOML file under the user's
// config directory. Writes go through a temp file and rename so a crash never
// leaves a half-written token store, and the file stays owner-readable only.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/vitals-cli/internal/domain"
	"github.com/bnema/vitals-cli/internal/ports"
)

const (
	configName          = "config"
	configType          = "toml"
	credentialsPathKey  = "credentials.path"
	credentialsFileMode = 0o600
	credentialsDirMode  = 0o700
	configDir           = ".vitals"
	credentialsFile     = "credentials.toml"
	tempFilePattern     = ".credentials-*.toml.tmp"
)

type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDir, credentialsFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(credentialsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(credentialsPathKey)
	if path == "" {
		return nil, errors.New("credentials path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return NewStoreAtPath(path)
}

// NewStoreAtPath skips config resolution and binds the store to an explicit
// file path.
func NewStoreAtPath(path string) (*Store, error) {
	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

func (s *Store) Get(ctx context.Context, key domain.CredentialKey) (domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credential{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.Credential{}, err
	}

	for _, entry := range file.Credentials {
		if entry.Provider == string(key.Provider) && entry.UserID == key.UserID {
			return fromSchema(entry), nil
		}
	}

	return domain.Credential{}, fmt.Errorf("%s: %w", key, domain.ErrCredentialMissing)
}

func (s *Store) Put(ctx context.Context, credential domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(credential)
	updated := false
	for i := range file.Credentials {
		if file.Credentials[i].Provider == encoded.Provider && file.Credentials[i].UserID == encoded.UserID {
			file.Credentials[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Credentials = append(file.Credentials, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *Store) Delete(ctx context.Context, key domain.CredentialKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Credentials[:0]
	for _, entry := range file.Credentials {
		if entry.Provider == string(key.Provider) && entry.UserID == key.UserID {
			continue
		}
		kept = append(kept, entry)
	}
	file.Credentials = kept

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read credentials file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode credentials file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), credentialsDirMode); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode credentials file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp credentials file: %w", err)
	}

	if err := tempFile.Chmod(credentialsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp credentials file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp credentials file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.path, credentialsFileMode); err != nil {
		return fmt.Errorf("chmod credentials file: %w", err)
	}

	return nil
}

func toSchema(credential domain.Credential) credentialSchema {
	return credentialSchema{
		Provider:     string(credential.Provider),
		UserID:       credential.UserID,
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		Scope:        credential.Scope,
		ObtainedAt:   formatTime(credential.ObtainedAt),
		ExpiresAt:    formatTime(credential.ExpiresAt),
	}
}

func fromSchema(entry credentialSchema) domain.Credential {
	return domain.Credential{
		Provider:     domain.ProviderID(entry.Provider),
		UserID:       entry.UserID,
		AccessToken:  entry.AccessToken,
		RefreshToken: entry.RefreshToken,
		Scope:        entry.Scope,
		ObtainedAt:   parseTime(entry.ObtainedAt),
		ExpiresAt:    parseTime(entry.ExpiresAt),
	}
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve credentials path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
