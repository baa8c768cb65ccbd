// Package ui implements the interactive setup wizard using bubbletea's Elm architecture.
//
// The wizard walks through the Apple Developer credential fields one at a
// time (Team ID, Key ID, private key path, storefront), validating each
// before advancing. The [Wizard] model implements bubbletea's standard
// Init/Update/View pattern; the caller runs it with tea.NewProgram and reads
// the collected values afterwards.
//
// Keyboard navigation uses enter to advance, esc to go back a field, and
// ctrl+c to abort, with contextual help displayed via charmbracelet/bubbles/help.
package ui
