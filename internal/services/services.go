package services

import (
	"context"

	"github.com/desertthunder/amp/internal/models"
)

// TokenProvider supplies a valid developer token. Implemented by auth.Issuer.
type TokenProvider interface {
	DeveloperToken() (string, error)
}

// Service defines the Apple Music operations available to tools and CLI
// commands. Each call is independent and idempotent except CreatePlaylist.
type Service interface {
	// SearchCatalog searches the public catalog. types is a comma-separated
	// list of resource kinds (songs, albums, artists, playlists).
	SearchCatalog(ctx context.Context, term, types string, limit int) (*models.SearchResults, error)

	// SearchLibrary searches the user's personal library.
	SearchLibrary(ctx context.Context, term, types string, limit int) (*models.SearchResults, error)

	// LibrarySongs lists saved songs with offset pagination.
	LibrarySongs(ctx context.Context, limit, offset int) (*models.Page[models.Song], error)

	// LibraryAlbums lists saved albums with offset pagination.
	LibraryAlbums(ctx context.Context, limit, offset int) (*models.Page[models.Album], error)

	// LibraryArtists lists library artists with offset pagination.
	LibraryArtists(ctx context.Context, limit, offset int) (*models.Page[models.Artist], error)

	// LibraryPlaylists lists the user's playlists.
	LibraryPlaylists(ctx context.Context, limit int) (*models.Page[models.Playlist], error)

	// PlaylistTracks returns the tracks inside a library playlist.
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.PlaylistTrack, error)

	// CreatePlaylist creates a new library playlist and returns it with the
	// service-assigned id. Not idempotent.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// AddTracks appends tracks to a library playlist. trackType is
	// "library-songs" or "songs" (catalog).
	AddTracks(ctx context.Context, playlistID string, trackIDs []string, trackType string) error

	// RecentlyPlayed returns recently played containers (albums, playlists,
	// stations), not individual tracks.
	RecentlyPlayed(ctx context.Context, limit int) ([]models.RecentItem, error)

	// Recommendations returns personalised recommendation groups.
	Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error)

	// Name returns the service name for logs and output headers.
	Name() string
}

// Pager lazily walks an offset-paginated collection one page per Next call.
//
// Termination is explicit: More reports false once the service stops
// advertising a next cursor or returns an empty page.
type Pager[T any] struct {
	fetch  func(ctx context.Context, limit, offset int) (*models.Page[T], error)
	limit  int
	offset int
	more   bool
}

// NewPager wraps a page-fetching function. limit is the page size requested
// from the service on each call.
func NewPager[T any](limit int, fetch func(ctx context.Context, limit, offset int) (*models.Page[T], error)) *Pager[T] {
	return &Pager[T]{fetch: fetch, limit: limit, more: true}
}

// More reports whether another page may be available.
func (p *Pager[T]) More() bool {
	return p.more
}

// Next fetches the next page. Returns nil without error once the sequence is
// exhausted.
func (p *Pager[T]) Next(ctx context.Context) (*models.Page[T], error) {
	if !p.more {
		return nil, nil
	}

	page, err := p.fetch(ctx, p.limit, p.offset)
	if err != nil {
		return nil, err
	}

	p.offset += len(page.Items)
	p.more = page.Next && len(page.Items) > 0

	return page, nil
}
