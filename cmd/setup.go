package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amp/internal/server"
	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/store"
	"github.com/desertthunder/amp/internal/ui"
)

const defaultAuthorizeTimeout = 5 * time.Minute

var errSetupAborted = errors.New("setup aborted")

// Setup collects Apple Developer credentials, mints a developer token, runs
// the browser authorization flow, and saves everything to the credential
// store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.collectCredentials(cmd)
	if err != nil {
		if errors.Is(err, errSetupAborted) {
			return r.writePlain("Setup cancelled.\n")
		}
		return err
	}

	if err := r.authorizeAndSave(ctx, creds, cmd.Duration("timeout")); err != nil {
		return err
	}

	r.writePlainln("✓ Setup complete")
	r.writePlain("You can now use: amp library songs\n")
	r.writePlain("Or serve the tools to an assistant host: amp serve\n")
	return nil
}

// Authorize re-runs the browser flow with previously saved credentials,
// replacing only the Music User Token.
func (r *Runner) Authorize(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials()
	if err != nil {
		return err
	}

	if err := r.authorizeAndSave(ctx, creds, cmd.Duration("timeout")); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization refreshed")
	return nil
}

// collectCredentials takes credentials from flags when all are provided,
// otherwise it runs the interactive wizard prefilled with any stored record.
func (r *Runner) collectCredentials(cmd *cli.Command) (*store.Credentials, error) {
	teamID := cmd.String("team-id")
	keyID := cmd.String("key-id")
	keyPath := cmd.String("key")

	if teamID != "" && keyID != "" && keyPath != "" {
		return &store.Credentials{
			TeamID:         teamID,
			KeyID:          keyID,
			PrivateKeyPath: keyPath,
			Storefront:     cmd.String("storefront"),
		}, nil
	}

	existing := store.Credentials{}
	if saved, err := r.store.Load(); err == nil {
		existing = *saved
		r.logger.Info("found existing credentials, values prefilled")
	}

	wizard := ui.NewWizard(existing)
	model, err := tea.NewProgram(wizard).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	finished, ok := model.(*ui.Wizard)
	if !ok || !finished.Done() {
		return nil, errSetupAborted
	}

	creds := finished.Values()
	creds.MusicUserToken = existing.MusicUserToken
	return &creds, nil
}

// authorizeAndSave mints a developer token, drives the MusicKit browser
// flow, and persists the credentials with the captured user token.
func (r *Runner) authorizeAndSave(ctx context.Context, creds *store.Credentials, timeout time.Duration) error {
	issuer, err := r.issuerFor(creds)
	if err != nil {
		return err
	}

	developerToken, err := issuer.DeveloperToken()
	if err != nil {
		return fmt.Errorf("failed to mint developer token: %w", err)
	}
	r.logger.Info("developer token minted", "expires", issuer.Expiry())

	if timeout <= 0 {
		timeout = defaultAuthorizeTimeout
	}
	authCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.writePlain("Waiting for you to authorize in the browser (timeout: %v)…\n", timeout)

	userToken, err := server.Authorize(authCtx, addr, developerToken, r.logger)
	if err != nil {
		if errors.Is(err, shared.ErrTimeout) {
			return fmt.Errorf("%w: run `amp setup authorize` to try again", err)
		}
		return err
	}

	creds.MusicUserToken = userToken
	if err := r.store.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	// Rebuild the service next time it is needed so it picks up the new token.
	r.svc = nil
	return nil
}
