// Apple Music API implementation of [Service]
//
// Response types based on https://developer.apple.com/documentation/applemusicapi
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/amp/internal/models"
	"github.com/desertthunder/amp/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.music.apple.com/v1"
	defaultStorefront = "us"
	defaultTimeout    = 30 * time.Second
)

// resource is the generic Apple Music resource envelope. Attributes carries
// the union of the fields this client reads; absent fields decode to zero
// values.
type resource struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Attributes    resourceAttributes `json:"attributes"`
	Relationships *relationships     `json:"relationships,omitempty"`
}

type resourceAttributes struct {
	Name        string       `json:"name"`
	ArtistName  string       `json:"artistName"`
	AlbumName   string       `json:"albumName"`
	ReleaseDate string       `json:"releaseDate"`
	TrackCount  int          `json:"trackCount"`
	CuratorName string       `json:"curatorName"`
	Description *description `json:"description,omitempty"`
	Title       *title       `json:"title,omitempty"`
}

type description struct {
	Standard string `json:"standard"`
	Short    string `json:"short"`
}

type title struct {
	StringForDisplay string `json:"stringForDisplay"`
}

type relationships struct {
	Contents struct {
		Data []resource `json:"data"`
	} `json:"contents"`
}

// pageResponse is the paginated collection envelope. Next holds the path of
// the following page and is empty on the last one.
type pageResponse struct {
	Data []resource `json:"data"`
	Next string     `json:"next"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// searchResponse groups hits by resource kind ("songs", "library-albums", ...).
type searchResponse struct {
	Results map[string]struct {
		Data []resource `json:"data"`
	} `json:"results"`
}

// AppleMusicService implements [Service] against the Apple Music REST API.
//
// Every request carries the developer token; personalized endpoints also
// carry the Music-User-Token header. Requests pass through an optional
// client-side rate limiter.
type AppleMusicService struct {
	baseURL    string
	storefront string
	issuer     TokenProvider
	userToken  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Service = (*AppleMusicService)(nil)

// AppleMusicOpts configures an AppleMusicService.
type AppleMusicOpts struct {
	BaseURL    string
	Storefront string
	Issuer     TokenProvider
	UserToken  string
	HTTPClient *http.Client
	RateLimit  float64 // requests per second, 0 disables limiting
	Timeout    time.Duration
}

// NewAppleMusicService creates the API gateway. An issuer is required; the
// user token may be empty until setup has run, in which case personalized
// calls fail with ErrMissingCredentials.
func NewAppleMusicService(opts AppleMusicOpts) (*AppleMusicService, error) {
	if opts.Issuer == nil {
		return nil, fmt.Errorf("%w: token issuer is required", shared.ErrMissingCredentials)
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	storefront := opts.Storefront
	if storefront == "" {
		storefront = defaultStorefront
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &AppleMusicService{
		baseURL:    baseURL,
		storefront: storefront,
		issuer:     opts.Issuer,
		userToken:  opts.UserToken,
		httpClient: client,
		limiter:    limiter,
	}, nil
}

// Name returns the service name.
func (s *AppleMusicService) Name() string {
	return "Apple Music"
}

// doRequest performs one authenticated exchange against the API and decodes
// the JSON body into result when non-nil.
func (s *AppleMusicService) doRequest(ctx context.Context, method, path string, query url.Values, body, result any, userAuth bool) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	apiURL := s.baseURL + path
	if encoded := encodeQuery(query); encoded != "" {
		apiURL += "?" + encoded
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	devToken, err := s.issuer.DeveloperToken()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+devToken)

	if userAuth {
		if s.userToken == "" {
			return fmt.Errorf("%w: no user token, run setup first", shared.ErrMissingCredentials)
		}
		req.Header.Set("Music-User-Token", s.userToken)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// statusError maps non-2xx responses onto the error taxonomy. None of these
// are retried locally.
func statusError(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d, re-run setup to authorize", shared.ErrAuthRejected, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrUpstream, code)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, code, strings.TrimSpace(string(snippet)))
	}
}

// encodeQuery renders query params, skipping empty values.
func encodeQuery(query url.Values) string {
	if query == nil {
		return ""
	}
	clean := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				clean.Add(key, v)
			}
		}
	}
	return clean.Encode()
}

// SearchCatalog searches the public catalog for the configured storefront.
// Catalog search is developer-token only: no Music-User-Token is attached.
func (s *AppleMusicService) SearchCatalog(ctx context.Context, term, types string, limit int) (*models.SearchResults, error) {
	query := url.Values{
		"term":  {term},
		"types": {types},
		"limit": {fmt.Sprint(limit)},
	}

	var resp searchResponse
	path := fmt.Sprintf("/catalog/%s/search", s.storefront)
	if err := s.doRequest(ctx, http.MethodGet, path, query, nil, &resp, false); err != nil {
		return nil, err
	}

	return collectSearchResults(&resp), nil
}

// SearchLibrary searches within the user's library.
func (s *AppleMusicService) SearchLibrary(ctx context.Context, term, types string, limit int) (*models.SearchResults, error) {
	query := url.Values{
		"term":  {term},
		"types": {types},
		"limit": {fmt.Sprint(limit)},
	}

	var resp searchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/library/search", query, nil, &resp, true); err != nil {
		return nil, err
	}

	return collectSearchResults(&resp), nil
}

func collectSearchResults(resp *searchResponse) *models.SearchResults {
	results := &models.SearchResults{}
	for kind, group := range resp.Results {
		switch kind {
		case "songs", "library-songs":
			for _, r := range group.Data {
				results.Songs = append(results.Songs, toSong(r))
			}
		case "albums", "library-albums":
			for _, r := range group.Data {
				results.Albums = append(results.Albums, toAlbum(r))
			}
		case "artists", "library-artists":
			for _, r := range group.Data {
				results.Artists = append(results.Artists, toArtist(r))
			}
		case "playlists", "library-playlists":
			for _, r := range group.Data {
				results.Playlists = append(results.Playlists, toPlaylist(r))
			}
		}
	}
	return results
}

func (s *AppleMusicService) listPage(ctx context.Context, path string, limit, offset int) (*pageResponse, error) {
	query := url.Values{
		"limit":  {fmt.Sprint(limit)},
		"offset": {fmt.Sprint(offset)},
	}
	if offset <= 0 {
		query.Del("offset")
	}

	var resp pageResponse
	if err := s.doRequest(ctx, http.MethodGet, path, query, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibrarySongs lists saved songs.
func (s *AppleMusicService) LibrarySongs(ctx context.Context, limit, offset int) (*models.Page[models.Song], error) {
	resp, err := s.listPage(ctx, "/me/library/songs", limit, offset)
	if err != nil {
		return nil, err
	}
	return toPage(resp, offset, toSong), nil
}

// LibraryAlbums lists saved albums.
func (s *AppleMusicService) LibraryAlbums(ctx context.Context, limit, offset int) (*models.Page[models.Album], error) {
	resp, err := s.listPage(ctx, "/me/library/albums", limit, offset)
	if err != nil {
		return nil, err
	}
	return toPage(resp, offset, toAlbum), nil
}

// LibraryArtists lists library artists.
func (s *AppleMusicService) LibraryArtists(ctx context.Context, limit, offset int) (*models.Page[models.Artist], error) {
	resp, err := s.listPage(ctx, "/me/library/artists", limit, offset)
	if err != nil {
		return nil, err
	}
	return toPage(resp, offset, toArtist), nil
}

// LibraryPlaylists lists the user's playlists.
func (s *AppleMusicService) LibraryPlaylists(ctx context.Context, limit int) (*models.Page[models.Playlist], error) {
	resp, err := s.listPage(ctx, "/me/library/playlists", limit, 0)
	if err != nil {
		return nil, err
	}
	return toPage(resp, 0, toPlaylist), nil
}

// PlaylistTracks returns the tracks inside a library playlist.
func (s *AppleMusicService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.PlaylistTrack, error) {
	path := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))
	resp, err := s.listPage(ctx, path, limit, 0)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.PlaylistTrack, 0, len(resp.Data))
	for _, r := range resp.Data {
		tracks = append(tracks, models.PlaylistTrack{
			ID:     r.ID,
			Type:   r.Type,
			Name:   r.Attributes.Name,
			Artist: r.Attributes.ArtistName,
		})
	}
	return tracks, nil
}

// CreatePlaylist creates a new library playlist.
func (s *AppleMusicService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	attributes := map[string]string{"name": name}
	if description != "" {
		attributes["description"] = description
	}
	body := map[string]any{"attributes": attributes}

	var resp pageResponse
	if err := s.doRequest(ctx, http.MethodPost, "/me/library/playlists", nil, body, &resp, true); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		// Some responses omit the created resource; report what we know.
		return &models.Playlist{Name: name, Description: description}, nil
	}

	created := toPlaylist(resp.Data[0])
	if created.Name == "" {
		created.Name = name
	}
	return &created, nil
}

// AddTracks appends tracks to a library playlist. The service treats
// duplicate adds at its own discretion; no local dedup happens here.
func (s *AppleMusicService) AddTracks(ctx context.Context, playlistID string, trackIDs []string, trackType string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if trackType == "" {
		trackType = "library-songs"
	}

	type trackRef struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	refs := make([]trackRef, 0, len(trackIDs))
	for _, id := range trackIDs {
		refs = append(refs, trackRef{ID: id, Type: trackType})
	}

	path := fmt.Sprintf("/me/library/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, path, nil, map[string]any{"data": refs}, nil, true)
}

// RecentlyPlayed returns recently played containers.
func (s *AppleMusicService) RecentlyPlayed(ctx context.Context, limit int) ([]models.RecentItem, error) {
	query := url.Values{"limit": {fmt.Sprint(limit)}}

	var resp pageResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/recent/played", query, nil, &resp, true); err != nil {
		return nil, err
	}

	items := make([]models.RecentItem, 0, len(resp.Data))
	for _, r := range resp.Data {
		items = append(items, toRecentItem(r))
	}
	return items, nil
}

// Recommendations returns personalised recommendation groups with their
// contents.
func (s *AppleMusicService) Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error) {
	query := url.Values{"limit": {fmt.Sprint(limit)}}

	var resp pageResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/recommendations", query, nil, &resp, true); err != nil {
		return nil, err
	}

	recs := make([]models.Recommendation, 0, len(resp.Data))
	for _, r := range resp.Data {
		rec := models.Recommendation{Title: "Recommendation"}
		if r.Attributes.Title != nil && r.Attributes.Title.StringForDisplay != "" {
			rec.Title = r.Attributes.Title.StringForDisplay
		}
		if r.Relationships != nil {
			for _, item := range r.Relationships.Contents.Data {
				rec.Contents = append(rec.Contents, toRecentItem(item))
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// SongsPager returns a lazy pager over the library song collection.
func (s *AppleMusicService) SongsPager(pageSize int) *Pager[models.Song] {
	return NewPager(pageSize, s.LibrarySongs)
}

// AlbumsPager returns a lazy pager over the library album collection.
func (s *AppleMusicService) AlbumsPager(pageSize int) *Pager[models.Album] {
	return NewPager(pageSize, s.LibraryAlbums)
}

// ArtistsPager returns a lazy pager over the library artist collection.
func (s *AppleMusicService) ArtistsPager(pageSize int) *Pager[models.Artist] {
	return NewPager(pageSize, s.LibraryArtists)
}

func toPage[T any](resp *pageResponse, offset int, convert func(resource) T) *models.Page[T] {
	items := make([]T, 0, len(resp.Data))
	for _, r := range resp.Data {
		items = append(items, convert(r))
	}

	total := resp.Meta.Total
	if total == 0 && len(items) > 0 {
		total = -1
	}

	return &models.Page[T]{
		Items:  items,
		Offset: offset,
		Total:  total,
		Next:   resp.Next != "",
	}
}

func toSong(r resource) models.Song {
	return models.Song{
		ID:     r.ID,
		Name:   r.Attributes.Name,
		Artist: r.Attributes.ArtistName,
		Album:  r.Attributes.AlbumName,
	}
}

func toAlbum(r resource) models.Album {
	return models.Album{
		ID:          r.ID,
		Name:        r.Attributes.Name,
		Artist:      r.Attributes.ArtistName,
		ReleaseDate: r.Attributes.ReleaseDate,
		TrackCount:  r.Attributes.TrackCount,
	}
}

func toArtist(r resource) models.Artist {
	return models.Artist{ID: r.ID, Name: r.Attributes.Name}
}

func toPlaylist(r resource) models.Playlist {
	p := models.Playlist{
		ID:         r.ID,
		Name:       r.Attributes.Name,
		Curator:    r.Attributes.CuratorName,
		TrackCount: r.Attributes.TrackCount,
	}
	if r.Attributes.Description != nil {
		p.Description = r.Attributes.Description.Standard
	}
	return p
}

func toRecentItem(r resource) models.RecentItem {
	return models.RecentItem{
		ID:     r.ID,
		Type:   r.Type,
		Name:   r.Attributes.Name,
		Artist: r.Attributes.ArtistName,
	}
}
