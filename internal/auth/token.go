// Package auth mints the short-lived developer token that proves the
// application's identity to the Apple Music API.
package auth

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/desertthunder/amp/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// MaxLifetime is the longest developer token Apple accepts.
	MaxLifetime = 6 * 30 * 24 * time.Hour

	// DefaultLifetime is just under the six month cap (~182 days).
	DefaultLifetime = 15777000 * time.Second

	// DefaultRefreshMargin re-signs a token a day before it expires, so a
	// long-lived process never presents one that dies mid-request.
	DefaultRefreshMargin = 24 * time.Hour
)

// Issuer signs developer tokens with the MusicKit private key and caches the
// result until it is within the refresh margin of expiry. Signing is a pure
// local computation, never network I/O.
type Issuer struct {
	teamID   string
	keyID    string
	key      *ecdsa.PrivateKey
	lifetime time.Duration
	margin   time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// IssuerOpts configures an Issuer. Zero values fall back to defaults.
type IssuerOpts struct {
	Lifetime time.Duration
	Margin   time.Duration
	Now      func() time.Time // injectable clock for tests
}

// NewIssuer parses the PEM-encoded ES256 private key and returns an Issuer.
//
// The lifetime is clamped to Apple's six month cap so every token satisfies
// expiry - issuance <= MaxLifetime.
func NewIssuer(teamID, keyID string, keyPEM []byte, opts IssuerOpts) (*Issuer, error) {
	if teamID == "" || keyID == "" {
		return nil, fmt.Errorf("%w: team id and key id are required", shared.ErrMissingCredentials)
	}

	key, err := jwt.ParseECPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse private key: %v", shared.ErrInvalidCredentials, err)
	}

	lifetime := opts.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	if lifetime > MaxLifetime {
		lifetime = MaxLifetime
	}

	margin := opts.Margin
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	if margin >= lifetime {
		return nil, fmt.Errorf("%w: refresh margin %v must be shorter than lifetime %v", shared.ErrInvalidConfig, margin, lifetime)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Issuer{
		teamID:   teamID,
		keyID:    keyID,
		key:      key,
		lifetime: lifetime,
		margin:   margin,
		now:      now,
	}, nil
}

// NewIssuerFromFile reads the .p8 key file at keyPath and builds an Issuer.
func NewIssuerFromFile(teamID, keyID, keyPath string, opts IssuerOpts) (*Issuer, error) {
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read private key %s: %v", shared.ErrMissingCredentials, keyPath, err)
	}
	return NewIssuer(teamID, keyID, keyPEM, opts)
}

// DeveloperToken returns the cached token while its remaining lifetime
// exceeds the refresh margin, signing a fresh one otherwise.
func (i *Issuer) DeveloperToken() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if i.cached != "" && i.expiry.Sub(now) > i.margin {
		return i.cached, nil
	}

	issued := now
	expiry := issued.Add(i.lifetime)

	claims := jwt.MapClaims{
		"iss": i.teamID,
		"iat": issued.Unix(),
		"exp": expiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = i.keyID

	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign developer token: %v", shared.ErrInvalidCredentials, err)
	}

	i.cached = signed
	i.expiry = expiry
	return signed, nil
}

// Expiry reports when the cached token lapses. Zero time means nothing has
// been signed yet.
func (i *Issuer) Expiry() time.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.expiry
}
