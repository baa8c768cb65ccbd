package store

import (
	"fmt"

	"github.com/desertthunder/amp/internal/shared"
)

// Credentials is the durable credential record. The private key itself is
// never stored, only a path to the .p8 file.
type Credentials struct {
	TeamID         string `json:"team_id"`
	KeyID          string `json:"key_id"`
	PrivateKeyPath string `json:"private_key_path"`
	Storefront     string `json:"storefront"`
	MusicUserToken string `json:"music_user_token,omitempty"`
}

// Validate checks that the developer identifiers are present. The user token
// is allowed to be empty: setup writes the record before authorization runs.
func (c *Credentials) Validate() error {
	if c.TeamID == "" {
		return fmt.Errorf("%w: team_id", shared.ErrMissingCredentials)
	}
	if c.KeyID == "" {
		return fmt.Errorf("%w: key_id", shared.ErrMissingCredentials)
	}
	if c.PrivateKeyPath == "" {
		return fmt.Errorf("%w: private_key_path", shared.ErrMissingCredentials)
	}
	return nil
}

// Store reads and writes the credential record.
type Store interface {
	// Load returns the stored record. Returns ErrMissingCredentials if no
	// record exists yet.
	Load() (*Credentials, error)

	// Save persists the record, replacing any existing one.
	Save(*Credentials) error
}
