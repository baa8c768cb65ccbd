package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.music.apple.com/v1" {
			t.Errorf("expected Apple Music base URL, got %s", config.API.BaseURL)
		}

		if config.API.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.API.PageSize)
		}

		if config.Auth.TokenLifetimeSeconds != 15777000 {
			t.Errorf("expected token lifetime 15777000, got %d", config.Auth.TokenLifetimeSeconds)
		}

		if config.Server.Port != 8888 {
			t.Errorf("expected server port 8888, got %d", config.Server.Port)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.API.BaseURL != defaultConfig.API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://music.example.com/v1"
timeout_seconds = 10
rate_limit = 2.5
page_size = 50

[auth]
credentials_path = "/custom/credentials.json"
token_lifetime_seconds = 3600
refresh_margin_seconds = 600
use_keyring = true

[server]
host = "0.0.0.0"
port = 9999
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://music.example.com/v1" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}

		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.API.RateLimit)
		}

		if !config.Auth.UseKeyring {
			t.Error("expected use_keyring true")
		}

		if config.Server.Port != 9999 {
			t.Errorf("expected server port 9999, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("LoadConfig malformed file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Fatal("expected error for malformed file")
		}
	})
}

func TestCredentialsPath(t *testing.T) {
	t.Run("default expands home", func(t *testing.T) {
		config := DefaultConfig()
		config.Auth.CredentialsPath = ""

		path, err := config.CredentialsPath()
		if err != nil {
			t.Fatalf("CredentialsPath failed: %v", err)
		}

		home, _ := os.UserHomeDir()
		if !strings.HasPrefix(path, home) {
			t.Errorf("expected path under home, got %s", path)
		}
		if !strings.HasSuffix(path, filepath.Join(".amp", "credentials.json")) {
			t.Errorf("unexpected default path %s", path)
		}
	})

	t.Run("explicit path unchanged", func(t *testing.T) {
		config := DefaultConfig()
		config.Auth.CredentialsPath = "/etc/amp/creds.json"

		path, err := config.CredentialsPath()
		if err != nil {
			t.Fatalf("CredentialsPath failed: %v", err)
		}
		if path != "/etc/amp/creds.json" {
			t.Errorf("expected explicit path, got %s", path)
		}
	})
}

func TestExpandPath(t *testing.T) {
	t.Run("tilde prefix", func(t *testing.T) {
		path, err := ExpandPath("~/keys/AuthKey.p8")
		if err != nil {
			t.Fatalf("ExpandPath failed: %v", err)
		}

		home, _ := os.UserHomeDir()
		if path != filepath.Join(home, "keys/AuthKey.p8") {
			t.Errorf("unexpected expansion %s", path)
		}
	})

	t.Run("absolute path untouched", func(t *testing.T) {
		path, err := ExpandPath("/tmp/AuthKey.p8")
		if err != nil {
			t.Fatalf("ExpandPath failed: %v", err)
		}
		if path != "/tmp/AuthKey.p8" {
			t.Errorf("expected path unchanged, got %s", path)
		}
	})
}
