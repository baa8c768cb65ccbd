package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/store"
)

// field identifies one credential input in the wizard.
type field int

const (
	fieldTeamID field = iota
	fieldKeyID
	fieldKeyPath
	fieldStorefront
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Team ID",
	"MusicKit Key ID",
	"Path to .p8 private key",
	"Storefront country code",
}

var fieldHints = [fieldCount]string{
	"Find it at developer.apple.com → Account → Membership",
	"The 10-character identifier of your MusicKit key",
	"e.g. ~/Downloads/AuthKey_XXXXXX.p8",
	"Two-letter code, e.g. us, gb, it",
}

// keyMap defines the [key.Binding] mapping for the wizard.
type keyMap struct {
	next key.Binding
	back key.Binding
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.next, k.back, k.quit}}
}

// Wizard collects Apple Developer credentials one field at a time.
type Wizard struct {
	inputs  [fieldCount]textinput.Model
	focus   field
	done    bool
	aborted bool
	errMsg  string
	help    help.Model
	keys    keyMap
}

// NewWizard creates a wizard prefilled from existing credentials, so a
// re-run only needs the fields the user wants to change.
func NewWizard(existing store.Credentials) *Wizard {
	w := &Wizard{
		help: help.New(),
		keys: newKeyMap(),
	}

	prefill := [fieldCount]string{
		existing.TeamID,
		existing.KeyID,
		existing.PrivateKeyPath,
		existing.Storefront,
	}

	for f := field(0); f < fieldCount; f++ {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = fieldHints[f]
		in.SetValue(prefill[f])
		in.CharLimit = 256
		w.inputs[f] = in
	}
	if w.inputs[fieldStorefront].Value() == "" {
		w.inputs[fieldStorefront].SetValue("us")
	}

	w.inputs[fieldTeamID].Focus()
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and advances the wizard state.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, w.keys.quit):
			w.aborted = true
			return w, tea.Quit

		case key.Matches(keyMsg, w.keys.back):
			if w.focus > 0 {
				w.errMsg = ""
				w.setFocus(w.focus - 1)
			}
			return w, nil

		case key.Matches(keyMsg, w.keys.next):
			if msg := w.validate(w.focus); msg != "" {
				w.errMsg = msg
				return w, nil
			}
			w.errMsg = ""
			if w.focus == fieldCount-1 {
				w.done = true
				return w, tea.Quit
			}
			w.setFocus(w.focus + 1)
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)
	return w, cmd
}

// View renders the current field with its hint and any validation error.
func (w *Wizard) View() string {
	if w.done || w.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Apple Music Setup"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Step %d of %d — %s\n", w.focus+1, fieldCount, fieldLabels[w.focus]))
	b.WriteString(styles.help.Render(fieldHints[w.focus]))
	b.WriteString("\n\n")
	b.WriteString(w.inputs[w.focus].View())
	b.WriteString("\n")

	if w.errMsg != "" {
		b.WriteString(styles.err.Render(w.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.help.ShortHelpView(w.keys.ShortHelp()))
	return b.String()
}

func (w *Wizard) setFocus(f field) {
	w.inputs[w.focus].Blur()
	w.focus = f
	w.inputs[w.focus].Focus()
}

// validate checks the current field's value before the wizard advances.
func (w *Wizard) validate(f field) string {
	value := strings.TrimSpace(w.inputs[f].Value())

	switch f {
	case fieldTeamID, fieldKeyID:
		if value == "" {
			return fieldLabels[f] + " is required"
		}
	case fieldKeyPath:
		if value == "" {
			return "private key path is required"
		}
		expanded, err := shared.ExpandPath(value)
		if err != nil {
			return err.Error()
		}
		if _, err := os.Stat(expanded); err != nil {
			return fmt.Sprintf(".p8 file not found: %s", expanded)
		}
	case fieldStorefront:
		if len(value) != 2 {
			return "storefront must be a two-letter country code"
		}
	}
	return ""
}

// Done reports whether the user completed all fields.
func (w *Wizard) Done() bool {
	return w.done
}

// Aborted reports whether the user quit before finishing.
func (w *Wizard) Aborted() bool {
	return w.aborted
}

// Values returns the collected credentials. The Music User Token is filled
// in later by the browser authorization flow.
func (w *Wizard) Values() store.Credentials {
	return store.Credentials{
		TeamID:         strings.TrimSpace(w.inputs[fieldTeamID].Value()),
		KeyID:          strings.TrimSpace(w.inputs[fieldKeyID].Value()),
		PrivateKeyPath: strings.TrimSpace(w.inputs[fieldKeyPath].Value()),
		Storefront:     strings.ToLower(strings.TrimSpace(w.inputs[fieldStorefront].Value())),
	}
}
