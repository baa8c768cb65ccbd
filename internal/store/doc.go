// Package store persists the credential record: developer identifiers, the
// signing key reference, and the user authorization token.
//
// Two backends exist:
//   - FileStore: a JSON file with owner-only permissions and atomic writes
//   - KeyringStore: wraps a FileStore but keeps the user token in the OS
//     keyring (macOS Keychain, Windows Credential Manager, Secret Service)
//
// No other package knows how credentials are stored.
package store
