package models

// Song represents a track from the catalog or the user's library.
type Song struct {
	ID     string
	Name   string
	Artist string
	Album  string
}

// Album represents an album from the catalog or the user's library.
type Album struct {
	ID          string
	Name        string
	Artist      string
	ReleaseDate string // YYYY-MM-DD, may be empty for library albums
	TrackCount  int
}

// Artist represents an artist.
type Artist struct {
	ID   string
	Name string
}

// Playlist represents a playlist in the user's library or the catalog.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Curator     string
	TrackCount  int
}

// PlaylistTrack is a track in playlist context, which may be a library song
// or a catalog song.
type PlaylistTrack struct {
	ID     string
	Type   string // "library-songs" or "songs"
	Name   string
	Artist string
}

// SearchResults groups search hits by resource kind. Empty slices mean the
// kind was either not requested or had no matches.
type SearchResults struct {
	Songs     []Song
	Albums    []Album
	Artists   []Artist
	Playlists []Playlist
}

// RecentItem is a recently played container. The service returns containers
// (albums, playlists, stations) rather than individual tracks.
type RecentItem struct {
	ID     string
	Type   string // "albums", "playlists", "stations", ...
	Name   string
	Artist string // set for albums only
}

// Recommendation is a personalised recommendation group with its contents.
type Recommendation struct {
	Title    string
	Contents []RecentItem
}

// Page is one page of a paginated listing. Total is the collection size as
// reported by the service, or -1 when it wasn't reported. Next reports
// whether the service advertised a further page.
type Page[T any] struct {
	Items  []T
	Offset int
	Total  int
	Next   bool
}
