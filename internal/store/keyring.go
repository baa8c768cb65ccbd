package store

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringUser = "music-user-token"

// KeyringStore layers OS-native secure storage over a FileStore: developer
// identifiers stay in the JSON record, the user authorization token lives in
// the system keyring keyed by team id.
type KeyringStore struct {
	file    *FileStore
	service string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore wraps the given FileStore. The service name namespaces the
// keyring entry and must not be empty.
func NewKeyringStore(file *FileStore, service string) (*KeyringStore, error) {
	if file == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if service == "" {
		return nil, fmt.Errorf("keyring service cannot be empty")
	}

	return &KeyringStore{file: file, service: service}, nil
}

// Load reads the record from the file store and fills in the user token from
// the keyring. A missing keyring entry is not an error: the record simply has
// no token yet.
func (k *KeyringStore) Load() (*Credentials, error) {
	creds, err := k.file.Load()
	if err != nil {
		return nil, err
	}

	token, err := keyring.Get(k.service, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return creds, nil
		}
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	creds.MusicUserToken = token
	return creds, nil
}

// Save writes the user token to the keyring and the rest of the record to the
// file store. The token never touches the JSON file.
func (k *KeyringStore) Save(creds *Credentials) error {
	if creds.MusicUserToken != "" {
		if err := keyring.Set(k.service, keyringUser, creds.MusicUserToken); err != nil {
			return fmt.Errorf("failed to write keyring: %w", err)
		}
	}

	onDisk := *creds
	onDisk.MusicUserToken = ""
	return k.file.Save(&onDisk)
}
