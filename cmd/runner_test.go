package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amp/internal/models"
	"github.com/desertthunder/amp/internal/services"
	"github.com/desertthunder/amp/internal/shared"
	"github.com/desertthunder/amp/internal/store"
	tu "github.com/desertthunder/amp/internal/testing"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

// runCommand builds the full CLI around a Runner and executes one invocation,
// returning everything written to the output stream.
func runCommand(t *testing.T, svc services.Service, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Store:   newTestStore(t),
		Service: svc,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	})

	app := &cli.Command{Name: "amp", Commands: runner.register()}
	err := app.Run(context.Background(), append([]string{"amp"}, args...))
	return output.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			svc := &tu.MockService{}
			credStore := newTestStore(t)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Store:   credStore,
				Service: svc,
				Logger:  logger,
				Output:  output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.store != credStore {
				t.Error("expected store to be set")
			}
			if runner.svc != svc {
				t.Error("expected service to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Store: newTestStore(t)})
		commands := runner.register()
		if len(commands) != 8 {
			t.Fatalf("expected 8 top-level commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "serve", "token", "catalog", "library", "playlist", "recent", "recommendations"} {
			if !names[want] {
				t.Errorf("missing command %q", want)
			}
		}
	})

	t.Run("music without credentials points at setup", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Store:  newTestStore(t),
			Logger: shared.NewLogger(io.Discard),
		})

		_, err := runner.music()
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		if !strings.Contains(err.Error(), "amp setup") {
			t.Errorf("expected setup hint in error, got %q", err.Error())
		}
	})
}

func TestLibraryCommands(t *testing.T) {
	t.Run("songs prints page", func(t *testing.T) {
		svc := &tu.MockService{Songs: []models.Song{
			{ID: "s.1", Name: "Pink Moon", Artist: "Nick Drake"},
		}}

		out, err := runCommand(t, svc, "library", "songs")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "Pink Moon") {
			t.Errorf("expected song in output, got %q", out)
		}
	})

	t.Run("songs honors json flag", func(t *testing.T) {
		svc := &tu.MockService{Songs: []models.Song{{ID: "s.1", Name: "Pink Moon"}}}

		out, err := runCommand(t, svc, "library", "songs", "--json")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, `"Items"`) {
			t.Errorf("expected JSON page in output, got %q", out)
		}
	})

	t.Run("songs passes limit and offset", func(t *testing.T) {
		svc := &tu.MockService{}

		_, err := runCommand(t, svc, "library", "songs", "--limit", "7", "--offset", "14")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		last := svc.Calls[len(svc.Calls)-1]
		if last != "LibrarySongs(7,14)" {
			t.Errorf("expected LibrarySongs(7,14), got %s", last)
		}
	})

	t.Run("tracks requires id", func(t *testing.T) {
		_, err := runCommand(t, &tu.MockService{}, "library", "tracks")
		if err == nil {
			t.Fatal("expected error for missing --id")
		}
	})

	t.Run("service errors surface", func(t *testing.T) {
		svc := &tu.MockService{FailWith: shared.ErrAuthRejected}

		_, err := runCommand(t, svc, "library", "albums")
		if !errors.Is(err, shared.ErrAuthRejected) {
			t.Fatalf("expected ErrAuthRejected, got %v", err)
		}
	})
}

func TestSearchCommands(t *testing.T) {
	t.Run("catalog search requires term", func(t *testing.T) {
		_, err := runCommand(t, &tu.MockService{}, "catalog", "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("catalog search prints results", func(t *testing.T) {
		svc := &tu.MockService{Songs: []models.Song{{ID: "c.1", Name: "Heroes", Artist: "David Bowie"}}}

		out, err := runCommand(t, svc, "catalog", "search", "heroes")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "Heroes") {
			t.Errorf("expected result in output, got %q", out)
		}
	})

	t.Run("catalog search reports empty results", func(t *testing.T) {
		out, err := runCommand(t, &tu.MockService{}, "catalog", "search", "nothing")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "No results") {
			t.Errorf("expected empty-result message, got %q", out)
		}
	})

	t.Run("library search prints results", func(t *testing.T) {
		svc := &tu.MockService{Albums: []models.Album{{ID: "a.1", Name: "Low", Artist: "David Bowie"}}}

		out, err := runCommand(t, svc, "library", "search", "low")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "Low") {
			t.Errorf("expected result in output, got %q", out)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("create prints new playlist id", func(t *testing.T) {
		svc := &tu.MockService{Created: &models.Playlist{ID: "p.new", Name: "Road Trip"}}

		out, err := runCommand(t, svc, "playlist", "create", "--name", "Road Trip")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "p.new") {
			t.Errorf("expected playlist id in output, got %q", out)
		}
	})

	t.Run("create requires name", func(t *testing.T) {
		_, err := runCommand(t, &tu.MockService{}, "playlist", "create")
		if err == nil {
			t.Fatal("expected error for missing --name")
		}
	})

	t.Run("add forwards tracks", func(t *testing.T) {
		svc := &tu.MockService{}

		out, err := runCommand(t, svc, "playlist", "add", "--id", "p.1", "--track", "s.1", "--track", "s.2")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if svc.AddedPlaylistID != "p.1" {
			t.Errorf("expected playlist p.1, got %s", svc.AddedPlaylistID)
		}
		if len(svc.AddedTrackIDs) != 2 {
			t.Errorf("expected 2 track ids, got %v", svc.AddedTrackIDs)
		}
		if svc.AddedTrackType != "library-songs" {
			t.Errorf("expected default track type, got %s", svc.AddedTrackType)
		}
		if !strings.Contains(out, "Added 2 tracks") {
			t.Errorf("expected confirmation, got %q", out)
		}
	})
}

func TestRecentAndRecommendations(t *testing.T) {
	t.Run("recent prints items", func(t *testing.T) {
		svc := &tu.MockService{Recent: []models.RecentItem{
			{ID: "r.1", Type: "albums", Name: "Blue", Artist: "Joni Mitchell"},
		}}

		out, err := runCommand(t, svc, "recent")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "Blue") {
			t.Errorf("expected item in output, got %q", out)
		}
	})

	t.Run("recommendations prints groups", func(t *testing.T) {
		svc := &tu.MockService{Recs: []models.Recommendation{
			{Title: "Made for You"},
		}}

		out, err := runCommand(t, svc, "recommendations")
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(out, "Made for You") {
			t.Errorf("expected group in output, got %q", out)
		}
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Run("writeJSON compact and pretty", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"a\":\"b\"}\n" {
			t.Errorf("unexpected compact output %q", got)
		}

		output.Reset()
		if err := runner.writeJSON(map[string]string{"a": "b"}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(output.String(), "\n  \"a\"") {
			t.Errorf("expected indented output, got %q", output.String())
		}
	})

	t.Run("writeJSON propagates writer errors", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, Logger: shared.NewLogger(io.Discard)})
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}
