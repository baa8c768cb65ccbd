// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/desertthunder/amp/internal/models"
)

// MockService is a configurable test double for [services.Service]. Zero
// value returns empty results; set Err to force every call to fail, or
// override individual fields to shape responses.
type MockService struct {
	Err             bool
	FailWith        error
	Songs           []models.Song
	Albums          []models.Album
	Artists         []models.Artist
	Playlists       []models.Playlist
	Tracks          []models.PlaylistTrack
	Recent          []models.RecentItem
	Recs            []models.Recommendation
	Created         *models.Playlist
	AddedPlaylistID string
	AddedTrackIDs   []string
	AddedTrackType  string
	Calls           []string
}

func (m *MockService) fail() error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.Err {
		return errors.New("mock service error")
	}
	return nil
}

func (m *MockService) record(op string) {
	m.Calls = append(m.Calls, op)
}

func (m *MockService) SearchCatalog(ctx context.Context, term, types string, limit int) (*models.SearchResults, error) {
	m.record("SearchCatalog")
	if err := m.fail(); err != nil {
		return nil, err
	}
	return &models.SearchResults{Songs: m.Songs, Albums: m.Albums, Artists: m.Artists, Playlists: m.Playlists}, nil
}

func (m *MockService) SearchLibrary(ctx context.Context, term, types string, limit int) (*models.SearchResults, error) {
	m.record("SearchLibrary")
	if err := m.fail(); err != nil {
		return nil, err
	}
	return &models.SearchResults{Songs: m.Songs, Albums: m.Albums, Artists: m.Artists, Playlists: m.Playlists}, nil
}

func (m *MockService) LibrarySongs(ctx context.Context, limit, offset int) (*models.Page[models.Song], error) {
	m.record(fmt.Sprintf("LibrarySongs(%d,%d)", limit, offset))
	if err := m.fail(); err != nil {
		return nil, err
	}
	return pageOf(m.Songs, limit, offset), nil
}

func (m *MockService) LibraryAlbums(ctx context.Context, limit, offset int) (*models.Page[models.Album], error) {
	m.record(fmt.Sprintf("LibraryAlbums(%d,%d)", limit, offset))
	if err := m.fail(); err != nil {
		return nil, err
	}
	return pageOf(m.Albums, limit, offset), nil
}

func (m *MockService) LibraryArtists(ctx context.Context, limit, offset int) (*models.Page[models.Artist], error) {
	m.record(fmt.Sprintf("LibraryArtists(%d,%d)", limit, offset))
	if err := m.fail(); err != nil {
		return nil, err
	}
	return pageOf(m.Artists, limit, offset), nil
}

func (m *MockService) LibraryPlaylists(ctx context.Context, limit int) (*models.Page[models.Playlist], error) {
	m.record(fmt.Sprintf("LibraryPlaylists(%d)", limit))
	if err := m.fail(); err != nil {
		return nil, err
	}
	return pageOf(m.Playlists, limit, 0), nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.PlaylistTrack, error) {
	m.record("PlaylistTracks")
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.Tracks, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	if err := m.fail(); err != nil {
		return nil, err
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &models.Playlist{ID: "p.new", Name: name, Description: description}, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, trackIDs []string, trackType string) error {
	m.record("AddTracks")
	if err := m.fail(); err != nil {
		return err
	}
	m.AddedPlaylistID = playlistID
	m.AddedTrackIDs = trackIDs
	m.AddedTrackType = trackType
	return nil
}

func (m *MockService) RecentlyPlayed(ctx context.Context, limit int) ([]models.RecentItem, error) {
	m.record("RecentlyPlayed")
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.Recent, nil
}

func (m *MockService) Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error) {
	m.record("Recommendations")
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.Recs, nil
}

func (m *MockService) Name() string { return "mock" }

func pageOf[T any](items []T, limit, offset int) *models.Page[T] {
	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return &models.Page[T]{
		Items:  items[offset:end],
		Offset: offset,
		Total:  total,
		Next:   end < total,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	MaxWrites int
	written   int
	Target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.MaxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.Target.Write(p)
}
