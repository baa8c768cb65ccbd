package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/amp/internal/shared"
)

func TestFileStore(t *testing.T) {
	t.Run("NewFileStore", func(t *testing.T) {
		t.Run("Empty Path", func(t *testing.T) {
			if _, err := NewFileStore(""); err == nil {
				t.Error("expected error for empty path")
			}
		})

		t.Run("Creates Parent Directory", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "credentials.json")
			if _, err := NewFileStore(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			info, err := os.Stat(filepath.Dir(path))
			if err != nil {
				t.Fatalf("parent directory not created: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0700 {
				t.Errorf("expected 0700 directory permissions, got %04o", perm)
			}
		})
	})

	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, err := NewFileStore(path)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		want := &Credentials{
			TeamID:         "TEAM123456",
			KeyID:          "KEY9876543",
			PrivateKeyPath: "/keys/AuthKey_KEY9876543.p8",
			Storefront:     "us",
			MusicUserToken: "opaque-user-token==",
		}

		if err := fs.Save(want); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := fs.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		if *got != *want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}

		if got.MusicUserToken != want.MusicUserToken {
			t.Errorf("user token changed in round trip: got %q", got.MusicUserToken)
		}
	})

	t.Run("Save Sets Owner Only Permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, _ := NewFileStore(path)

		creds := &Credentials{TeamID: "T", KeyID: "K", PrivateKeyPath: "/k.p8"}
		if err := fs.Save(creds); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600, got %04o", perm)
		}
	})

	t.Run("Load Missing Record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, _ := NewFileStore(path)

		_, err := fs.Load()
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Load Refuses Insecure Permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, _ := NewFileStore(path)

		creds := &Credentials{TeamID: "T", KeyID: "K", PrivateKeyPath: "/k.p8"}
		if err := fs.Save(creds); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := os.Chmod(path, 0644); err != nil {
			t.Fatalf("failed to chmod: %v", err)
		}

		_, err := fs.Load()
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for 0644 file, got %v", err)
		}
	})

	t.Run("Load Malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, _ := NewFileStore(path)

		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		_, err := fs.Load()
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Save Validates Identifiers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		fs, _ := NewFileStore(path)

		err := fs.Save(&Credentials{KeyID: "K", PrivateKeyPath: "/k.p8"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for missing team_id, got %v", err)
		}
	})
}

func TestCredentialsValidate(t *testing.T) {
	cases := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"Complete", Credentials{TeamID: "T", KeyID: "K", PrivateKeyPath: "/k.p8"}, false},
		{"No Token Is Valid", Credentials{TeamID: "T", KeyID: "K", PrivateKeyPath: "/k.p8", MusicUserToken: ""}, false},
		{"Missing Team", Credentials{KeyID: "K", PrivateKeyPath: "/k.p8"}, true},
		{"Missing Key", Credentials{TeamID: "T", PrivateKeyPath: "/k.p8"}, true},
		{"Missing Key Path", Credentials{TeamID: "T", KeyID: "K"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.creds.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
