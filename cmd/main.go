package main

import (
	"context"
	"os"

	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring unreadable config.toml: %v", err)
		}
	}

	credStore, err := buildStore(config)
	if err != nil {
		logger.Fatalf("failed to open credential store: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  credStore,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "amp",
		Usage:    "Apple Music library tools and assistant server",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildStore opens the credential store, optionally backed by the OS keyring
// for the user token.
func buildStore(config *shared.Config) (store.Store, error) {
	path, err := config.CredentialsPath()
	if err != nil {
		return nil, err
	}

	fileStore, err := store.NewFileStore(path)
	if err != nil {
		return nil, err
	}

	if config.Auth.UseKeyring {
		return store.NewKeyringStore(fileStore, "amp")
	}
	return fileStore, nil
}
