// Package session holds the state of one playlist-building run: the
// playlists made so far, the screen being shown, and the transient data each
// screen edits.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playcraft/internal/catalog"
	"playcraft/internal/clock"
	"playcraft/internal/debounce"
	"playcraft/internal/logger"
	"playcraft/internal/playlist"
	"playcraft/internal/search"
)

var (
	// ErrWrongMode is returned for an action the current screen does not offer
	ErrWrongMode = errors.New("action not available here")
	// ErrEmptySelection is returned when creating a playlist with no tracks selected
	ErrEmptySelection = errors.New("select at least one track")
	// ErrNotEditing is returned when changing a playlist that is not being edited
	ErrNotEditing = errors.New("playlist is not being edited")
)

// Options configures a Session
type Options struct {
	Clock  clock.Clock
	Delay  time.Duration
	Logger *logger.Logger
	// OnSettle is called from a timer goroutine when a search box's text has
	// settled. The callee should hand the query back through BeginSettled on
	// the goroutine that owns the session.
	OnSettle func(t Target, query string)
}

// Session is the view state machine. It is not safe for concurrent use
// except where noted; callers serialize access, typically from a UI loop.
type Session struct {
	clock clock.Clock
	log   *logger.Logger

	playlists playlist.Collection
	mode      Mode

	// Selecting
	selection playlist.Selection

	// Detail
	buffer *playlist.Buffer

	queries  [2]*debounce.Debouncer[string]
	fetchers [2]*search.Fetcher
}

// New creates a session on the List screen with no playlists
func New(c catalog.Catalog, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Session{
		clock: opts.Clock,
		log:   opts.Logger,
		mode:  List{},
		fetchers: [2]*search.Fetcher{
			MainSearch: search.New(MainSearch.String(), c),
			AddSearch:  search.New(AddSearch.String(), c),
		},
	}

	for _, t := range []Target{MainSearch, AddSearch} {
		t := t
		s.queries[t] = debounce.New(opts.Clock, opts.Delay, "", func(q string) {
			if opts.OnSettle != nil {
				opts.OnSettle(t, q)
			}
		})
	}

	return s
}

// Close stops pending search timers. The session must not be used afterwards.
func (s *Session) Close() {
	for _, q := range s.queries {
		q.Stop()
	}
}

// Mode returns the current screen
func (s *Session) Mode() Mode {
	return s.mode
}

// Playlists returns the playlists, newest first
func (s *Session) Playlists() []playlist.Playlist {
	return s.playlists.All()
}

// FindPlaylists returns the positions of playlists matching query
func (s *Session) FindPlaylists(query string) []int {
	return s.playlists.Find(query)
}

// StartNew moves from List to Selecting
func (s *Session) StartNew() error {
	if _, ok := s.mode.(List); !ok {
		return s.wrongMode("start a new playlist")
	}
	s.mode = Selecting{}
	return nil
}

// Open moves from List to the detail screen of the playlist at index
func (s *Session) Open(index int) error {
	if _, ok := s.mode.(List); !ok {
		return s.wrongMode("open a playlist")
	}

	p, err := s.playlists.At(index)
	if err != nil {
		return err
	}

	s.buffer = playlist.NewBuffer(p)
	s.mode = Detail{Index: index}
	return nil
}

// Back returns to List, discarding the selection or any unsaved edits
func (s *Session) Back() error {
	switch s.mode.(type) {
	case Selecting:
		s.leaveSelecting()
	case Detail:
		s.leaveDetail()
	case List:
		return s.wrongMode("go back")
	}
	s.mode = List{}
	return nil
}

// Toggle adds or removes t from the selection and reports whether it is
// selected afterwards
func (s *Session) Toggle(t playlist.Track) (bool, error) {
	if _, ok := s.mode.(Selecting); !ok {
		return false, s.wrongMode("select tracks")
	}
	return s.selection.Toggle(t), nil
}

// Deselect removes the track with the given ID from the selection
func (s *Session) Deselect(id int64) error {
	if _, ok := s.mode.(Selecting); !ok {
		return s.wrongMode("deselect tracks")
	}
	s.selection.Remove(id)
	return nil
}

// Selection returns the selected tracks in the order they were picked
func (s *Session) Selection() []playlist.Track {
	return s.selection.Tracks()
}

// Selected reports whether the track with the given ID is selected
func (s *Session) Selected(id int64) bool {
	return s.selection.Contains(id)
}

// Create turns the selection into a new untitled playlist at position 0 and
// returns to List
func (s *Session) Create() error {
	if _, ok := s.mode.(Selecting); !ok {
		return s.wrongMode("create a playlist")
	}
	if s.selection.Len() == 0 {
		return ErrEmptySelection
	}

	p := playlist.Playlist{
		Songs:     s.selection.Tracks(),
		CreatedAt: s.clock.Now(),
	}
	s.playlists.Prepend(p)
	s.log.Info(context.Background(), "playlist created", zap.Int("tracks", len(p.Songs)))

	s.leaveSelecting()
	s.mode = List{}
	return nil
}

// Edit turns on editing on the detail screen. Calling it while already
// editing does nothing.
func (s *Session) Edit() error {
	d, ok := s.mode.(Detail)
	if !ok {
		return s.wrongMode("edit")
	}
	d.Editing = true
	s.mode = d
	return nil
}

// Viewing returns the playlist shown on the detail screen as it currently
// reads, with buffered edits applied
func (s *Session) Viewing() (playlist.Playlist, error) {
	d, ok := s.mode.(Detail)
	if !ok {
		return playlist.Playlist{}, s.wrongMode("view a playlist")
	}

	p, err := s.playlists.At(d.Index)
	if err != nil {
		return playlist.Playlist{}, err
	}
	p.Title = s.buffer.Title
	p.Songs = s.buffer.Songs()
	return p, nil
}

// InBuffer reports whether the track with the given ID is in the playlist
// being viewed, including unsaved edits
func (s *Session) InBuffer(id int64) bool {
	return s.buffer != nil && s.buffer.Contains(id)
}

// Add appends t to the edit buffer unless it is already there
func (s *Session) Add(t playlist.Track) (bool, error) {
	if err := s.requireEditing(); err != nil {
		return false, err
	}
	return s.buffer.Add(t), nil
}

// Remove drops the track with the given ID from the edit buffer
func (s *Session) Remove(id int64) (bool, error) {
	if err := s.requireEditing(); err != nil {
		return false, err
	}
	return s.buffer.Remove(id), nil
}

// SetTitle changes the buffered title
func (s *Session) SetTitle(title string) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	s.buffer.Title = title
	return nil
}

// Save commits the edit buffer to the playlist and returns to List
func (s *Session) Save() error {
	if err := s.requireEditing(); err != nil {
		return err
	}

	d := s.mode.(Detail)
	songs := s.buffer.Songs()
	if err := s.playlists.Update(d.Index, s.buffer.Title, songs); err != nil {
		return err
	}
	s.log.Info(context.Background(), "playlist saved", zap.Int("index", d.Index), zap.Int("tracks", len(songs)))

	s.leaveDetail()
	s.mode = List{}
	return nil
}

func (s *Session) requireEditing() error {
	d, ok := s.mode.(Detail)
	if !ok {
		return s.wrongMode("change a playlist")
	}
	if !d.Editing {
		return ErrNotEditing
	}
	return nil
}

func (s *Session) leaveSelecting() {
	s.selection.Clear()
	s.resetSearch(MainSearch)
}

func (s *Session) leaveDetail() {
	s.buffer = nil
	s.resetSearch(AddSearch)
}

func (s *Session) resetSearch(t Target) {
	s.queries[t].Reset("")
	s.fetchers[t].Reset()
}

func (s *Session) wrongMode(action string) error {
	return fmt.Errorf("%w: cannot %s on %s", ErrWrongMode, action, s.mode)
}
