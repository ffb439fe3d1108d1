package playlist

// Buffer is a detached copy of a playlist that collects edits until they are
// saved. Changes to a Buffer never reach the playlist it was copied from.
type Buffer struct {
	Title string
	songs []Track
}

// NewBuffer returns an edit buffer initialized from p
func NewBuffer(p Playlist) *Buffer {
	return &Buffer{
		Title: p.Title,
		songs: cloneTracks(p.Songs),
	}
}

// Add appends t unless a track with the same ID is already present. It
// returns false when the buffer was left unchanged.
func (b *Buffer) Add(t Track) bool {
	if b.Contains(t.ID) {
		return false
	}
	b.songs = append(cloneTracks(b.songs), t)
	return true
}

// Remove drops every track with the given ID and reports whether one was found
func (b *Buffer) Remove(id int64) bool {
	if !b.Contains(id) {
		return false
	}

	kept := make([]Track, 0, len(b.songs))
	for _, t := range b.songs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	b.songs = kept
	return true
}

// Contains reports whether the track with the given ID is in the buffer
func (b *Buffer) Contains(id int64) bool {
	return indexOf(b.songs, id) >= 0
}

// Len returns the number of tracks in the buffer
func (b *Buffer) Len() int {
	return len(b.songs)
}

// Songs returns a copy of the buffered tracks
func (b *Buffer) Songs() []Track {
	return cloneTracks(b.songs)
}
