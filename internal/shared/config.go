package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Credentials (key identifiers, user token) live in a separate JSON record
// managed by the store package. Config holds tunables only.
type Config struct {
	API    APIConfig    `toml:"api"`
	Auth   AuthConfig   `toml:"auth"`
	Server ServerConfig `toml:"server"`
}

// APIConfig contains Apple Music API client settings.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
	PageSize       int     `toml:"page_size"`
}

// AuthConfig contains developer-token and credential-store settings.
type AuthConfig struct {
	CredentialsPath      string `toml:"credentials_path"`
	TokenLifetimeSeconds int64  `toml:"token_lifetime_seconds"`
	RefreshMarginSeconds int64  `toml:"refresh_margin_seconds"`
	UseKeyring           bool   `toml:"use_keyring"`
}

// ServerConfig contains settings for the one-shot setup callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CredentialsPath resolves the credential record path, expanding a leading ~
// and falling back to ~/.amp/credentials.json when unset.
func (c *Config) CredentialsPath() (string, error) {
	path := c.Auth.CredentialsPath
	if path == "" {
		path = "~/.amp/credentials.json"
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}
