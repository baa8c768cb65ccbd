// package formatter renders structured results into the text blocks that
// tools and CLI commands return
package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/desertthunder/amp/internal/models"
)

// FormatSong renders one song as a numbered line with its id, so callers can
// chain into playlist operations.
func FormatSong(s models.Song, index int) string {
	return fmt.Sprintf("  %d. %s — %s | Album: %s | ID: %s", index, orUnknown(s.Name), orUnknown(s.Artist), orUnknown(s.Album), orUnknown(s.ID))
}

// FormatAlbum renders one album with its release year when known.
func FormatAlbum(a models.Album, index int) string {
	year := ""
	if len(a.ReleaseDate) >= 4 {
		year = fmt.Sprintf(" (%s)", a.ReleaseDate[:4])
	}
	return fmt.Sprintf("  %d. %s — %s%s | ID: %s", index, orUnknown(a.Name), orUnknown(a.Artist), year, orUnknown(a.ID))
}

// FormatArtist renders one artist.
func FormatArtist(a models.Artist, index int) string {
	return fmt.Sprintf("  %d. %s | ID: %s", index, orUnknown(a.Name), orUnknown(a.ID))
}

// FormatPlaylist renders one playlist with a truncated description.
func FormatPlaylist(p models.Playlist, index int) string {
	line := fmt.Sprintf("  %d. [%s] %s (%d tracks)", index, orUnknown(p.ID), orUnknown(p.Name), p.TrackCount)
	if desc := truncate(p.Description, 60); desc != "" {
		line += " — " + desc
	}
	return line
}

// FormatSearchResults renders grouped search hits under per-kind headings.
// Returns an empty string when nothing matched.
func FormatSearchResults(results *models.SearchResults) string {
	var buf bytes.Buffer

	if len(results.Songs) > 0 {
		buf.WriteString("Songs:\n")
		for i, s := range results.Songs {
			buf.WriteString(FormatSong(s, i+1) + "\n")
		}
	}

	if len(results.Albums) > 0 {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("Albums:\n")
		for i, a := range results.Albums {
			buf.WriteString(FormatAlbum(a, i+1) + "\n")
		}
	}

	if len(results.Artists) > 0 {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("Artists:\n")
		for i, a := range results.Artists {
			buf.WriteString(FormatArtist(a, i+1) + "\n")
		}
	}

	if len(results.Playlists) > 0 {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("Playlists:\n")
		for i, p := range results.Playlists {
			buf.WriteString(FormatPlaylist(p, i+1) + "\n")
		}
	}

	return strings.TrimRight(buf.String(), "\n")
}

// FormatSongPage renders a page of library songs with a showing X-Y of N
// header.
func FormatSongPage(page *models.Page[models.Song]) string {
	if len(page.Items) == 0 {
		return "No songs found in your library."
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Library Songs — showing %d–%d of %s:\n\n", page.Offset+1, page.Offset+len(page.Items), formatTotal(page.Total)))
	for i, s := range page.Items {
		buf.WriteString(FormatSong(s, page.Offset+i+1) + "\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatAlbumPage renders a page of library albums.
func FormatAlbumPage(page *models.Page[models.Album]) string {
	if len(page.Items) == 0 {
		return "No albums found in your library."
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Library Albums — showing %d–%d of %s:\n\n", page.Offset+1, page.Offset+len(page.Items), formatTotal(page.Total)))
	for i, a := range page.Items {
		buf.WriteString(FormatAlbum(a, page.Offset+i+1) + "\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatArtistPage renders a page of library artists.
func FormatArtistPage(page *models.Page[models.Artist]) string {
	if len(page.Items) == 0 {
		return "No artists found in your library."
	}

	var buf bytes.Buffer
	buf.WriteString("Library Artists:\n\n")
	for i, a := range page.Items {
		buf.WriteString(FormatArtist(a, page.Offset+i+1) + "\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatPlaylistPage renders the user's playlists.
func FormatPlaylistPage(page *models.Page[models.Playlist]) string {
	if len(page.Items) == 0 {
		return "No playlists found in your library."
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Your Playlists (%d found):\n\n", len(page.Items)))
	for i, p := range page.Items {
		buf.WriteString(FormatPlaylist(p, i+1) + "\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatPlaylistTracks renders the tracks of one playlist.
func FormatPlaylistTracks(playlistID string, tracks []models.PlaylistTrack) string {
	if len(tracks) == 0 {
		return fmt.Sprintf("No tracks found in playlist '%s'.", playlistID)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Tracks in playlist [%s] — %d tracks:\n\n", playlistID, len(tracks)))
	for i, tr := range tracks {
		buf.WriteString(fmt.Sprintf("  %d. %s — %s | Type: %s | ID: %s\n", i+1, orUnknown(tr.Name), orUnknown(tr.Artist), orUnknown(tr.Type), orUnknown(tr.ID)))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatRecentItems renders recently played containers.
func FormatRecentItems(items []models.RecentItem) string {
	if len(items) == 0 {
		return "No recently played items found."
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Recently Played (%d items):\n\n", len(items)))
	for i, item := range items {
		detail := ""
		if item.Artist != "" {
			detail = " — " + item.Artist
		}
		buf.WriteString(fmt.Sprintf("  %d. [%s] %s%s | ID: %s\n", i+1, kindLabel(item.Type), orUnknown(item.Name), detail, orUnknown(item.ID)))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// maxRecommendationItems caps how many entries of each recommendation group
// are shown.
const maxRecommendationItems = 6

// FormatRecommendations renders personalised recommendation groups.
func FormatRecommendations(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations available right now."
	}

	var buf bytes.Buffer
	buf.WriteString("Personalised Recommendations:\n")
	for _, rec := range recs {
		buf.WriteString(fmt.Sprintf("\n%s\n", rec.Title))
		contents := rec.Contents
		if len(contents) > maxRecommendationItems {
			contents = contents[:maxRecommendationItems]
		}
		for i, item := range contents {
			detail := ""
			if item.Artist != "" {
				detail = " — " + item.Artist
			}
			buf.WriteString(fmt.Sprintf("  %d. [%s] %s%s | ID: %s\n", i+1, kindLabel(item.Type), orUnknown(item.Name), detail, orUnknown(item.ID)))
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func kindLabel(resourceType string) string {
	switch {
	case strings.Contains(resourceType, "album"):
		return "album"
	case strings.Contains(resourceType, "playlist"):
		return "playlist"
	case strings.Contains(resourceType, "station"):
		return "station"
	default:
		return "song"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func formatTotal(total int) string {
	if total < 0 {
		return "?"
	}
	return fmt.Sprint(total)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
