package playlist

// Selection is an insertion-ordered set of tracks keyed by track ID. It holds
// the tracks picked for a playlist that has not been created yet.
type Selection struct {
	tracks []Track
}

// Toggle adds t if it is absent and removes it otherwise. It returns true if
// the track is selected after the call.
func (s *Selection) Toggle(t Track) bool {
	if i := indexOf(s.tracks, t.ID); i >= 0 {
		s.tracks = removeAt(s.tracks, i)
		return false
	}
	s.tracks = append(cloneTracks(s.tracks), t)
	return true
}

// Remove drops the track with the given ID. Removing an absent track is a no-op.
func (s *Selection) Remove(id int64) {
	if i := indexOf(s.tracks, id); i >= 0 {
		s.tracks = removeAt(s.tracks, i)
	}
}

// Contains reports whether the track with the given ID is selected
func (s *Selection) Contains(id int64) bool {
	return indexOf(s.tracks, id) >= 0
}

// Len returns the number of selected tracks
func (s *Selection) Len() int {
	return len(s.tracks)
}

// Tracks returns a copy of the selected tracks in the order they were picked
func (s *Selection) Tracks() []Track {
	return cloneTracks(s.tracks)
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.tracks = nil
}

// removeAt returns a new slice without the element at i
func removeAt(tracks []Track, i int) []Track {
	out := make([]Track, 0, len(tracks)-1)
	out = append(out, tracks[:i]...)
	return append(out, tracks[i+1:]...)
}
