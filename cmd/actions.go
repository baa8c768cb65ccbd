package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/amp/internal/formatter"
	"github.com/desertthunder/amp/internal/shared"
)

// Token mints a developer token and prints it with its expiry.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials()
	if err != nil {
		return err
	}

	issuer, err := r.issuerFor(creds)
	if err != nil {
		return err
	}

	token, err := issuer.DeveloperToken()
	if err != nil {
		return fmt.Errorf("failed to mint developer token: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"developer_token": token,
			"expires_at":      issuer.Expiry(),
		}, true)
	}

	r.writePlain("%s\n", token)
	return r.writePlain("Expires: %s\n", issuer.Expiry().Format("2006-01-02 15:04:05 MST"))
}

// CatalogSearch searches the Apple Music catalog.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	term := strings.TrimSpace(cmd.StringArg("term"))
	if term == "" {
		return fmt.Errorf("%w: search term is required", shared.ErrMissingArgument)
	}

	svc, err := r.music()
	if err != nil {
		return err
	}

	r.logger.Infof("searching catalog for %q", term)
	results, err := svc.SearchCatalog(ctx, term, cmd.String("types"), cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	out := formatter.FormatSearchResults(results)
	if out == "" {
		return r.writePlain("No results for %q.\n", term)
	}
	return r.writePlain("%s\n", out)
}

// LibrarySearch searches the user's library.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	term := strings.TrimSpace(cmd.StringArg("term"))
	if term == "" {
		return fmt.Errorf("%w: search term is required", shared.ErrMissingArgument)
	}

	svc, err := r.music()
	if err != nil {
		return err
	}

	r.logger.Infof("searching library for %q", term)
	results, err := svc.SearchLibrary(ctx, term, cmd.String("types"), cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	out := formatter.FormatSearchResults(results)
	if out == "" {
		return r.writePlain("No results for %q.\n", term)
	}
	return r.writePlain("%s\n", out)
}

// LibrarySongs lists a page of library songs.
func (r *Runner) LibrarySongs(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	page, err := svc.LibrarySongs(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}
	return r.writePlain("%s\n", formatter.FormatSongPage(page))
}

// LibraryAlbums lists a page of library albums.
func (r *Runner) LibraryAlbums(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	page, err := svc.LibraryAlbums(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}
	return r.writePlain("%s\n", formatter.FormatAlbumPage(page))
}

// LibraryArtists lists a page of library artists.
func (r *Runner) LibraryArtists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	page, err := svc.LibraryArtists(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}
	return r.writePlain("%s\n", formatter.FormatArtistPage(page))
}

// LibraryPlaylists lists library playlists.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	page, err := svc.LibraryPlaylists(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}
	return r.writePlain("%s\n", formatter.FormatPlaylistPage(page))
}

// PlaylistTracks lists the tracks of a library playlist.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	svc, err := r.music()
	if err != nil {
		return err
	}

	tracks, err := svc.PlaylistTracks(ctx, playlistID, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}
	return r.writePlain("%s\n", formatter.FormatPlaylistTracks(playlistID, tracks))
}

// PlaylistCreate creates a new library playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	name := cmd.String("name")
	r.logger.Infof("creating playlist %q", name)

	playlist, err := svc.CreatePlaylist(ctx, name, cmd.String("description"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlainln("✓ Created playlist %q", playlist.Name)
	return r.writePlain("ID: %s\n", playlist.ID)
}

// PlaylistAdd adds tracks to an existing library playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")
	trackIDs := cmd.StringSlice("track")

	r.logger.Infof("adding %d tracks to playlist %s", len(trackIDs), playlistID)
	if err := svc.AddTracks(ctx, playlistID, trackIDs, cmd.String("type")); err != nil {
		return err
	}

	return r.writePlainln("✓ Added %d tracks to playlist %s", len(trackIDs), playlistID)
}

// Recent lists recently played items.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	items, err := svc.RecentlyPlayed(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}
	return r.writePlain("%s\n", formatter.FormatRecentItems(items))
}

// Recommendations lists personal recommendation groups.
func (r *Runner) Recommendations(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.music()
	if err != nil {
		return err
	}

	recs, err := svc.Recommendations(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, true)
	}
	return r.writePlain("%s\n", formatter.FormatRecommendations(recs))
}
