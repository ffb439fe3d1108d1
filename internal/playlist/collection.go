package playlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrIndexOutOfRange is returned when a playlist position does not exist
var ErrIndexOutOfRange = errors.New("playlist index out of range")

// Collection is the newest-first list of playlists owned by a session.
//
// A playlist is identified by its position for the lifetime of the session.
// Every mutation swaps in a new backing slice, so a slice obtained from All
// is never modified afterwards.
type Collection struct {
	playlists []Playlist
}

// Len returns the number of playlists
func (c *Collection) Len() int {
	return len(c.playlists)
}

// All returns the playlists in display order
func (c *Collection) All() []Playlist {
	return c.playlists
}

// At returns a copy of the playlist at position i
func (c *Collection) At(i int) (Playlist, error) {
	if i < 0 || i >= len(c.playlists) {
		return Playlist{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(c.playlists))
	}
	return c.playlists[i].clone(), nil
}

// Prepend inserts p at position 0, shifting every other playlist down by one
func (c *Collection) Prepend(p Playlist) {
	next := make([]Playlist, 0, len(c.playlists)+1)
	next = append(next, p.clone())
	next = append(next, c.playlists...)
	c.playlists = next
}

// Update replaces the title and songs of the playlist at position i. The
// creation time is kept.
func (c *Collection) Update(i int, title string, songs []Track) error {
	if i < 0 || i >= len(c.playlists) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(c.playlists))
	}

	next := make([]Playlist, len(c.playlists))
	copy(next, c.playlists)
	next[i] = Playlist{
		Title:     title,
		Songs:     cloneTracks(songs),
		CreatedAt: next[i].CreatedAt,
	}
	c.playlists = next
	return nil
}

// Find returns the positions of playlists whose title, track names or artists
// fuzzily match query. An empty query matches everything.
func (c *Collection) Find(query string) []int {
	query = strings.TrimSpace(query)

	var matches []int
	for i, p := range c.playlists {
		if query == "" || matchPlaylist(query, p) {
			matches = append(matches, i)
		}
	}
	return matches
}

func matchPlaylist(query string, p Playlist) bool {
	if fuzzy.MatchFold(query, p.DisplayTitle()) {
		return true
	}
	for _, t := range p.Songs {
		if fuzzy.MatchFold(query, t.Name) || fuzzy.MatchFold(query, t.Artist) {
			return true
		}
	}
	return false
}
