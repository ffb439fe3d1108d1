package playlist

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultTitle is shown for playlists that were never given a title
const DefaultTitle = "My playlist"

// Track represents a single catalog track with the metadata the builder shows.
// Tracks are never mutated after they are fetched.
type Track struct {
	ID             int64  `csv:"track_id"`
	Name           string `csv:"name"`
	Artist         string `csv:"artist"`
	Album          string `csv:"album"`
	Genre          string `csv:"genre"`
	DurationMillis int64  `csv:"duration_ms"`
	ArtworkURL60   string `csv:"artwork_60"`
	ArtworkURL100  string `csv:"artwork_100"`
	PreviewURL     string `csv:"preview_url"`
	URL            string `csv:"url"`
}

// Duration returns the track length, or zero when the catalog did not report it
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMillis) * time.Millisecond
}

// Length formats the duration as m:ss, or --:-- when it is unknown
func (t Track) Length() string {
	d := t.Duration()
	if d <= 0 {
		return "--:--"
	}
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Playlist represents an ordered collection of tracks
type Playlist struct {
	Title     string
	Songs     []Track
	CreatedAt time.Time
}

// DisplayTitle returns the title, falling back to DefaultTitle when empty
func (p Playlist) DisplayTitle() string {
	if p.Title == "" {
		return DefaultTitle
	}
	return p.Title
}

// Age returns a human readable creation time such as "3 minutes ago"
func (p Playlist) Age(now time.Time) string {
	if p.CreatedAt.IsZero() {
		return ""
	}
	return humanize.RelTime(p.CreatedAt, now, "ago", "from now")
}

// Contains reports whether a track with the given ID is in the playlist
func (p Playlist) Contains(id int64) bool {
	return indexOf(p.Songs, id) >= 0
}

// clone returns a copy whose Songs slice does not alias the receiver's
func (p Playlist) clone() Playlist {
	p.Songs = cloneTracks(p.Songs)
	return p
}

func cloneTracks(tracks []Track) []Track {
	if len(tracks) == 0 {
		return nil
	}
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

// indexOf returns the position of the track with the given ID or -1 if not found
func indexOf(tracks []Track, id int64) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
