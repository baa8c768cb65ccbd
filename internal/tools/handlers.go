package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/amp/internal/formatter"
	"github.com/desertthunder/amp/internal/services"
	"github.com/desertthunder/amp/internal/shared"
)

const (
	defaultPageSize     = 25
	maxListLimit        = 100
	maxSearchLimit      = 25
	maxRecentLimit      = 50
	maxRecommendLimit   = 10
	catalogSearchTypes  = "songs,albums,artists"
	librarySearchTypes  = "library-songs,library-albums,library-artists,library-playlists"
	defaultCatalogLimit = 5
	defaultLibraryLimit = 10
)

func buildTools(svc services.Service, pageSize int) []Tool {
	return []Tool{
		searchCatalogTool(svc),
		searchLibraryTool(svc),
		librarySongsTool(svc, pageSize),
		libraryAlbumsTool(svc, pageSize),
		libraryArtistsTool(svc, pageSize),
		libraryPlaylistsTool(svc),
		playlistTracksTool(svc),
		createPlaylistTool(svc),
		addTracksTool(svc),
		recentlyPlayedTool(svc),
		recommendationsTool(svc),
	}
}

func searchCatalogTool(svc services.Service) Tool {
	return Tool{
		Name:        "search_catalog",
		Description: "Search the Apple Music catalog for songs, albums, artists, or playlists.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search term, e.g. an artist or song name."},
				"types": {"type": "string", "description": "Comma-separated resource types: songs, albums, artists, playlists. Default songs,albums,artists."},
				"limit": {"type": "integer", "description": "Results per type, 1-25. Default 5."}
			},
			"required": ["query"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
				Types string `json:"types"`
				Limit int    `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.Query) == "" {
				return "", fmt.Errorf("%w: query", shared.ErrMissingArgument)
			}
			if in.Types == "" {
				in.Types = catalogSearchTypes
			}

			results, err := svc.SearchCatalog(ctx, in.Query, in.Types, clamp(in.Limit, defaultCatalogLimit, maxSearchLimit))
			if err != nil {
				return "", err
			}

			body := formatter.FormatSearchResults(results)
			if body == "" {
				return fmt.Sprintf("No results found for '%s'.", in.Query), nil
			}
			return fmt.Sprintf("Catalog search: '%s'\n\n%s", in.Query, body), nil
		},
	}
}

func searchLibraryTool(svc services.Service) Tool {
	return Tool{
		Name:        "search_library",
		Description: "Search within your personal Apple Music library.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search term."},
				"types": {"type": "string", "description": "Comma-separated types: library-songs, library-albums, library-artists, library-playlists."},
				"limit": {"type": "integer", "description": "Results per type, 1-25. Default 10."}
			},
			"required": ["query"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
				Types string `json:"types"`
				Limit int    `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.Query) == "" {
				return "", fmt.Errorf("%w: query", shared.ErrMissingArgument)
			}
			if in.Types == "" {
				in.Types = librarySearchTypes
			}

			results, err := svc.SearchLibrary(ctx, in.Query, in.Types, clamp(in.Limit, defaultLibraryLimit, maxSearchLimit))
			if err != nil {
				return "", err
			}

			body := formatter.FormatSearchResults(results)
			if body == "" {
				return fmt.Sprintf("Nothing found in your library for '%s'.", in.Query), nil
			}
			return fmt.Sprintf("Library search: '%s'\n\n%s", in.Query, body), nil
		},
	}
}

type pageArgs struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func librarySongsTool(svc services.Service, pageSize int) Tool {
	return Tool{
		Name:        "get_library_songs",
		Description: "List songs saved in your Apple Music library.",
		InputSchema: pageSchema("songs", pageSize),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in pageArgs
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			page, err := svc.LibrarySongs(ctx, clamp(in.Limit, pageSize, maxListLimit), max(0, in.Offset))
			if err != nil {
				return "", err
			}
			return formatter.FormatSongPage(page), nil
		},
	}
}

func libraryAlbumsTool(svc services.Service, pageSize int) Tool {
	return Tool{
		Name:        "get_library_albums",
		Description: "List albums saved in your Apple Music library.",
		InputSchema: pageSchema("albums", pageSize),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in pageArgs
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			page, err := svc.LibraryAlbums(ctx, clamp(in.Limit, pageSize, maxListLimit), max(0, in.Offset))
			if err != nil {
				return "", err
			}
			return formatter.FormatAlbumPage(page), nil
		},
	}
}

func libraryArtistsTool(svc services.Service, pageSize int) Tool {
	return Tool{
		Name:        "get_library_artists",
		Description: "List artists in your Apple Music library.",
		InputSchema: pageSchema("artists", pageSize),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in pageArgs
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			page, err := svc.LibraryArtists(ctx, clamp(in.Limit, pageSize, maxListLimit), max(0, in.Offset))
			if err != nil {
				return "", err
			}
			return formatter.FormatArtistPage(page), nil
		},
	}
}

func libraryPlaylistsTool(svc services.Service) Tool {
	return Tool{
		Name:        "get_library_playlists",
		Description: "List all playlists in your Apple Music library.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Maximum playlists to return, 1-100. Default 100."}
			}
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Limit int `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			page, err := svc.LibraryPlaylists(ctx, clamp(in.Limit, maxListLimit, maxListLimit))
			if err != nil {
				return "", err
			}
			return formatter.FormatPlaylistPage(page), nil
		},
	}
}

func playlistTracksTool(svc services.Service) Tool {
	return Tool{
		Name:        "get_playlist_tracks",
		Description: "Get the tracks inside a specific playlist. Use get_library_playlists to find playlist IDs.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"playlist_id": {"type": "string", "description": "Library playlist ID (starts with 'p.')."},
				"limit": {"type": "integer", "description": "Maximum tracks to return, 1-100. Default 100."}
			},
			"required": ["playlist_id"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				PlaylistID string `json:"playlist_id"`
				Limit      int    `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.PlaylistID) == "" {
				return "", fmt.Errorf("%w: playlist_id", shared.ErrMissingArgument)
			}

			tracks, err := svc.PlaylistTracks(ctx, in.PlaylistID, clamp(in.Limit, maxListLimit, maxListLimit))
			if err != nil {
				return "", err
			}
			return formatter.FormatPlaylistTracks(in.PlaylistID, tracks), nil
		},
	}
}

func createPlaylistTool(svc services.Service) Tool {
	return Tool{
		Name:        "create_playlist",
		Description: "Create a new playlist in your Apple Music library. Returns the new playlist ID.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Name for the new playlist."},
				"description": {"type": "string", "description": "Optional short description."}
			},
			"required": ["name"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.Name) == "" {
				return "", fmt.Errorf("%w: name", shared.ErrMissingArgument)
			}

			playlist, err := svc.CreatePlaylist(ctx, in.Name, in.Description)
			if err != nil {
				return "", err
			}

			if playlist.ID == "" {
				return fmt.Sprintf("Playlist '%s' created.", playlist.Name), nil
			}
			return fmt.Sprintf("Playlist created.\nName: %s\nID: %s", playlist.Name, playlist.ID), nil
		},
	}
}

func addTracksTool(svc services.Service) Tool {
	return Tool{
		Name:        "add_tracks_to_playlist",
		Description: "Add tracks to an existing playlist.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"playlist_id": {"type": "string", "description": "Target playlist ID (starts with 'p.')."},
				"track_ids": {"type": "array", "items": {"type": "string"}, "description": "Track IDs to add."},
				"track_type": {"type": "string", "description": "'library-songs' for library tracks (default), 'songs' for catalog tracks."}
			},
			"required": ["playlist_id", "track_ids"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				PlaylistID string   `json:"playlist_id"`
				TrackIDs   []string `json:"track_ids"`
				TrackType  string   `json:"track_type"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}
			if strings.TrimSpace(in.PlaylistID) == "" {
				return "", fmt.Errorf("%w: playlist_id", shared.ErrMissingArgument)
			}

			// Empty track list is a successful no-op, no API call made.
			if len(in.TrackIDs) == 0 {
				return fmt.Sprintf("Added 0 tracks to playlist [%s].", in.PlaylistID), nil
			}

			if err := svc.AddTracks(ctx, in.PlaylistID, in.TrackIDs, in.TrackType); err != nil {
				return "", err
			}
			return fmt.Sprintf("Added %d track(s) to playlist [%s].\nTrack IDs: %s", len(in.TrackIDs), in.PlaylistID, strings.Join(in.TrackIDs, ", ")), nil
		},
	}
}

func recentlyPlayedTool(svc services.Service) Tool {
	return Tool{
		Name:        "get_recently_played",
		Description: "Get your recently played albums, playlists, and stations.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Number of items to return, 1-50. Default 10."}
			}
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Limit int `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			items, err := svc.RecentlyPlayed(ctx, clamp(in.Limit, defaultLibraryLimit, maxRecentLimit))
			if err != nil {
				return "", err
			}
			return formatter.FormatRecentItems(items), nil
		},
	}
}

func recommendationsTool(svc services.Service) Tool {
	return Tool{
		Name:        "get_recommendations",
		Description: "Get personalised Apple Music recommendations.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Number of recommendation groups, 1-10. Default 5."}
			}
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Limit int `json:"limit"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return "", err
			}

			recs, err := svc.Recommendations(ctx, clamp(in.Limit, defaultCatalogLimit, maxRecommendLimit))
			if err != nil {
				return "", err
			}
			return formatter.FormatRecommendations(recs), nil
		},
	}
}

func pageSchema(kind string, pageSize int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"type": "object",
		"properties": {
			"limit": {"type": "integer", "description": "Number of %s to return, 1-100. Default %d."},
			"offset": {"type": "integer", "description": "Pagination offset for subsequent pages. Default 0."}
		}
	}`, kind, pageSize))
}
