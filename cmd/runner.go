package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amp/internal/auth"
	"github.com/desertthunder/amp/internal/services"
	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/store"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	store  store.Store
	svc    services.Service
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Store   store.Store
	Service services.Service
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		store:  opts.Store,
		svc:    opts.Service,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, tokenCommand, catalogCommand, libraryCommand, playlistCommand, recentCommand, recommendationsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// credentials loads the stored credential record, pointing the user at setup
// when nothing has been saved yet.
func (r *Runner) credentials() (*store.Credentials, error) {
	creds, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: run `amp setup` first", err)
	}
	return creds, nil
}

// issuerFor builds a developer token issuer from the stored credentials.
func (r *Runner) issuerFor(creds *store.Credentials) (*auth.Issuer, error) {
	keyPath, err := shared.ExpandPath(creds.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	return auth.NewIssuerFromFile(creds.TeamID, creds.KeyID, keyPath, auth.IssuerOpts{
		Lifetime: time.Duration(r.config.Auth.TokenLifetimeSeconds) * time.Second,
		Margin:   time.Duration(r.config.Auth.RefreshMarginSeconds) * time.Second,
	})
}

// music returns the Apple Music service, building it from stored credentials
// on first use.
func (r *Runner) music() (services.Service, error) {
	if r.svc != nil {
		return r.svc, nil
	}

	creds, err := r.credentials()
	if err != nil {
		return nil, err
	}

	issuer, err := r.issuerFor(creds)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewAppleMusicService(services.AppleMusicOpts{
		BaseURL:    r.config.API.BaseURL,
		Storefront: creds.Storefront,
		Issuer:     issuer,
		UserToken:  creds.MusicUserToken,
		RateLimit:  r.config.API.RateLimit,
		Timeout:    time.Duration(r.config.API.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	r.svc = svc
	return svc, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
