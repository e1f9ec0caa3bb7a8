package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Credentials []credentialSchema `toml:"credentials"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported credentials schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type credentialSchema struct {
	Provider     string `toml:"provider"`
	UserID       string `toml:"user_id"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	Scope        string `toml:"scope"`
	ObtainedAt   string `toml:"obtained_at"`
	ExpiresAt    string `toml:"expires_at"`
}
