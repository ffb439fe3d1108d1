// Package tui is the interactive playlist builder.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"playcraft/internal/catalog"
	"playcraft/internal/clock"
	"playcraft/internal/logger"
	"playcraft/internal/playlist"
	"playcraft/internal/preview"
	"playcraft/internal/search"
	"playcraft/internal/session"
	"playcraft/internal/utils"
)

// focus is the pane receiving keys
type focus int

const (
	// focusMain is the playlist cards on the list screen and the tracks on
	// the detail screen
	focusMain focus = iota
	focusFilter
	focusSearch
	focusResults
	focusTitle
)

func (f focus) typing() bool {
	return f == focusFilter || f == focusSearch || f == focusTitle
}

// Options configures the builder
type Options struct {
	Catalog catalog.Catalog
	// Backend plays previews. Previews are disabled when it is nil.
	Backend      preview.Backend
	Clock        clock.Clock
	Delay        time.Duration
	PreviewLimit time.Duration
	Logger       *logger.Logger
	// Export writes a playlist and returns the path written
	Export func(p playlist.Playlist) (string, error)
	// OpenURL shows a web page. Defaults to utils.OpenBrowser.
	OpenURL func(url string) error
}

type settledMsg struct {
	target session.Target
	query  string
}

type fetchedMsg struct {
	target session.Target
	err    error
}

type previewEndedMsg struct{}

type openedMsg struct {
	err error
}

type exportedMsg struct {
	path string
	size uint64
	err  error
}

// Model is the bubbletea model of the builder
type Model struct {
	ctx     context.Context
	log     *logger.Logger
	clock   clock.Clock
	session *session.Session
	player  *preview.Player
	export  func(playlist.Playlist) (string, error)
	openURL func(string) error

	// events carries settled queries and preview ends from timer goroutines
	events    chan tea.Msg
	done      chan struct{}
	closeOnce *sync.Once

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model
	filter  textinput.Model
	title   textinput.Model

	focus   focus
	cursor  int
	rcursor int
	status  string
	failed  bool
	width   int
	height  int
}

// New creates the builder on the list screen
func New(ctx context.Context, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.FromContext(ctx)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = utils.OpenBrowser
	}

	events := make(chan tea.Msg, 16)
	done := make(chan struct{})
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-done:
		}
	}

	m := Model{
		ctx:   logger.WithContext(ctx, opts.Logger),
		log:   opts.Logger,
		clock: opts.Clock,
		session: session.New(opts.Catalog, session.Options{
			Clock:  opts.Clock,
			Delay:  opts.Delay,
			Logger: opts.Logger,
			OnSettle: func(t session.Target, q string) {
				send(settledMsg{target: t, query: q})
			},
		}),
		export:    opts.Export,
		openURL:   opts.OpenURL,
		events:    events,
		done:      done,
		closeOnce: &sync.Once{},
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(cursorStyle)),
		search:    newInput("Search songs, artists, albums..."),
		filter:    newInput("Filter playlists..."),
		title:     newInput(playlist.DefaultTitle),
	}

	if opts.Backend != nil {
		m.player = preview.New(opts.Backend, preview.Options{
			Clock:  opts.Clock,
			Limit:  opts.PreviewLimit,
			Logger: opts.Logger,
			OnChange: func(string) {
				send(previewEndedMsg{})
			},
		})
	}
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 156
	ti.Prompt = "› "
	return ti
}

// Close stops pending timers and playback. It is safe to call more than once.
func (m Model) Close() {
	m.closeOnce.Do(func() {
		m.session.Close()
		if m.player != nil {
			m.player.Stop(m.ctx)
		}
		close(m.done)
	})
}

// Playlists returns the playlists built so far, newest first
func (m Model) Playlists() []playlist.Playlist {
	return m.session.Playlists()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.spinner.Tick)
}

// listen waits for the next event sent from a timer goroutine
func (m Model) listen() tea.Cmd {
	events, done := m.events, m.done
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settledMsg:
		req, err := m.session.BeginSettled(msg.target, msg.query)
		if err != nil {
			m.report(err)
		}
		if req != nil {
			m.rcursor = 0
		}
		return m, tea.Batch(m.listen(), m.fetch(msg.target, req))

	case fetchedMsg:
		if msg.err != nil && !errors.Is(msg.err, search.ErrStale) {
			m.report(fmt.Errorf("search failed: %w", msg.err))
		}
		m.clamp()
		return m, nil

	case previewEndedMsg:
		return m, m.listen()

	case openedMsg:
		if msg.err != nil {
			m.report(msg.err)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.report(fmt.Errorf("export failed: %w", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("exported %s (%s)", msg.path, humanize.Bytes(msg.size)))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.focus.typing() {
		return m.handleTyping(msg)
	}

	m.keys.enable(m.session.Mode(), m.focus)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.session.Mode().(type) {
	case session.List:
		return m.listKeys(msg)
	case session.Selecting:
		return m.selectingKeys(msg)
	case session.Detail:
		return m.detailKeys(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

func (m Model) handleTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.leaveInput(true)
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		return m.leaveInput(false)
	}
	return m.updateInput(msg)
}

// leaveInput moves focus away from the input being typed in
func (m Model) leaveInput(cancel bool) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusFilter:
		if cancel {
			m.filter.Reset()
			m.cursor = 0
		}
		return m, m.setFocus(focusMain)

	case focusSearch:
		if !cancel {
			return m, m.setFocus(focusResults)
		}
		if _, ok := m.session.Mode().(session.Selecting); ok {
			return m.back()
		}
		return m, m.setFocus(focusMain)

	case focusTitle:
		if cancel {
			if p, err := m.session.Viewing(); err == nil {
				m.title.SetValue(p.Title)
			}
		} else if err := m.session.SetTitle(m.title.Value()); err != nil {
			m.report(err)
		}
		return m, m.setFocus(focusMain)
	}
	return m, nil
}

// updateInput hands msg to the input in focus
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		if err := m.session.SetQuery(m.search.Value()); err != nil {
			m.report(err)
		}
	case focusFilter:
		before := m.filter.Value()
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.cursor = 0
		}
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.search.Blur()
	m.filter.Blur()
	m.title.Blur()

	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusFilter:
		return m.filter.Focus()
	case focusTitle:
		return m.title.Focus()
	}
	return nil
}

func (m Model) listKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visiblePlaylists()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if len(visible) == 0 {
			return m, nil
		}
		if err := m.session.Open(visible[m.cursor]); err != nil {
			m.report(err)
			return m, nil
		}
		m.cursor, m.rcursor = 0, 0
		m.setStatus("")
	case key.Matches(msg, m.keys.New):
		if err := m.session.StartNew(); err != nil {
			m.report(err)
			return m, nil
		}
		m.search.Reset()
		m.rcursor = 0
		m.setStatus("")
		return m, m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.Filter):
		return m, m.setFocus(focusFilter)
	case key.Matches(msg, m.keys.Export):
		if len(visible) == 0 {
			return m, nil
		}
		return m, m.exportCmd(m.session.Playlists()[visible[m.cursor]])
	}
	return m, nil
}

func (m Model) selectingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusResults {
			return m, m.setFocus(focusSearch)
		}
		return m, m.setFocus(focusResults)
	case key.Matches(msg, m.keys.Create):
		n := len(m.session.Selection())
		if err := m.session.Create(); err != nil {
			m.report(err)
			return m, nil
		}
		m.leaveScreen()
		m.setStatus(fmt.Sprintf("created a playlist of %d tracks", n))
		return m, m.setFocus(focusMain)
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.currentTrack()
		if !ok {
			return m, nil
		}
		if _, err := m.session.Toggle(t); err != nil {
			m.report(err)
		}
		return m, nil
	}
	return m.resultKeys(msg)
}

func (m Model) detailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, err := m.session.Viewing()
	if err != nil {
		m.report(err)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd(p)
	case key.Matches(msg, m.keys.Edit):
		if err := m.session.Edit(); err != nil {
			m.report(err)
			return m, nil
		}
		m.title.SetValue(p.Title)
		m.setStatus("editing: tab to search for tracks to add")
		return m, nil
	case key.Matches(msg, m.keys.Save):
		if err := m.session.Save(); err != nil {
			m.report(err)
			return m, nil
		}
		m.leaveScreen()
		m.setStatus("playlist saved")
		return m, m.setFocus(focusMain)
	case key.Matches(msg, m.keys.Focus):
		next := map[focus]focus{focusMain: focusSearch, focusSearch: focusResults, focusResults: focusMain}
		return m, m.setFocus(next[m.focus])
	case key.Matches(msg, m.keys.Title):
		return m, m.setFocus(focusTitle)
	case key.Matches(msg, m.keys.Remove):
		t, ok := m.currentTrack()
		if !ok {
			return m, nil
		}
		if _, err := m.session.Remove(t.ID); err != nil {
			m.report(err)
		}
		m.clamp()
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.currentTrack()
		if !ok {
			return m, nil
		}
		added, err := m.session.Add(t)
		switch {
		case err != nil:
			m.report(err)
		case added:
			m.setStatus(fmt.Sprintf("added %s", t.Name))
		default:
			m.setStatus(fmt.Sprintf("%s is already in the playlist", t.Name))
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if err := m.session.ClearQuery(); err != nil {
			m.report(err)
			return m, nil
		}
		m.search.Reset()
		m.rcursor = 0
		return m, nil
	}

	if m.focus == focusMain {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = max(m.cursor-1, 0)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(p.Songs)-1 {
				m.cursor++
			}
			return m, nil
		}
	}
	return m.resultKeys(msg)
}

// resultKeys handles the keys shared by every track list
func (m Model) resultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.rcursor = max(m.rcursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		if state, ok := m.session.Results(); ok && m.rcursor < len(state.Results)-1 {
			m.rcursor++
		}
	case key.Matches(msg, m.keys.More):
		req, t, err := m.session.BeginMore()
		if err != nil {
			m.report(err)
			return m, nil
		}
		return m, m.fetch(t, req)
	case key.Matches(msg, m.keys.Retry):
		req, t, err := m.session.BeginRetry()
		if err != nil {
			m.report(err)
			return m, nil
		}
		m.setStatus("retrying...")
		return m, m.fetch(t, req)
	case key.Matches(msg, m.keys.Preview):
		if t, ok := m.currentTrack(); ok {
			m.togglePreview(t)
		}
	case key.Matches(msg, m.keys.Browser):
		if t, ok := m.currentTrack(); ok {
			return m, m.openCmd(t.URL)
		}
	}
	return m, nil
}

// back returns to the list screen, dropping whatever the screen held
func (m Model) back() (tea.Model, tea.Cmd) {
	if err := m.session.Back(); err != nil {
		m.report(err)
		return m, nil
	}
	m.leaveScreen()
	m.setStatus("")
	return m, m.setFocus(focusMain)
}

func (m *Model) leaveScreen() {
	m.search.Reset()
	m.title.Reset()
	m.cursor, m.rcursor = 0, 0
	if m.player != nil {
		m.player.Stop(m.ctx)
	}
}

// currentTrack returns the track under the cursor of the pane in focus
func (m Model) currentTrack() (playlist.Track, bool) {
	if m.focus == focusResults {
		state, ok := m.session.Results()
		if !ok || m.rcursor >= len(state.Results) {
			return playlist.Track{}, false
		}
		return state.Results[m.rcursor], true
	}

	p, err := m.session.Viewing()
	if err != nil || m.cursor >= len(p.Songs) {
		return playlist.Track{}, false
	}
	return p.Songs[m.cursor], true
}

func (m *Model) togglePreview(t playlist.Track) {
	if m.player == nil {
		m.report(errors.New("previews are disabled"))
		return
	}
	playing, err := m.player.Toggle(m.ctx, t.PreviewURL)
	switch {
	case err != nil:
		m.report(err)
	case playing == "":
		m.setStatus("preview stopped")
	default:
		m.setStatus(fmt.Sprintf("playing %s by %s", t.Name, t.Artist))
	}
}

func (m Model) playing() string {
	if m.player == nil {
		return ""
	}
	return m.player.Playing()
}

func (m Model) fetch(t session.Target, req *search.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	f, ctx := m.session.Fetcher(t), m.ctx
	return func() tea.Msg {
		return fetchedMsg{target: t, err: f.Run(ctx, req)}
	}
}

func (m Model) exportCmd(p playlist.Playlist) tea.Cmd {
	if m.export == nil {
		return nil
	}
	export := m.export
	return func() tea.Msg {
		path, err := export(p)
		if err != nil {
			return exportedMsg{err: err}
		}
		msg := exportedMsg{path: path}
		if info, err := os.Stat(path); err == nil {
			msg.size = uint64(info.Size())
		}
		return msg
	}
}

func (m Model) openCmd(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	open := m.openURL
	return func() tea.Msg {
		return openedMsg{err: open(url)}
	}
}

// visiblePlaylists returns the collection positions shown on the list screen
func (m Model) visiblePlaylists() []int {
	if q := m.filter.Value(); q != "" {
		return m.session.FindPlaylists(q)
	}
	idx := make([]int, len(m.session.Playlists()))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// clamp keeps cursors inside lists that may have shrunk
func (m *Model) clamp() {
	if state, ok := m.session.Results(); ok {
		m.rcursor = min(m.rcursor, max(len(state.Results)-1, 0))
	}

	n := 0
	switch m.session.Mode().(type) {
	case session.List:
		n = len(m.visiblePlaylists())
	case session.Detail:
		if p, err := m.session.Viewing(); err == nil {
			n = len(p.Songs)
		}
	}
	m.cursor = min(m.cursor, max(n-1, 0))
}

func (m *Model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *Model) report(err error) {
	switch {
	case errors.Is(err, search.ErrNoMore):
		m.setStatus("no more results")
		return
	case errors.Is(err, search.ErrBusy):
		m.setStatus("still loading...")
		return
	case errors.Is(err, search.ErrNothingToRetry):
		m.setStatus("nothing to retry")
		return
	}
	m.status, m.failed = err.Error(), true
	m.log.Warn(m.ctx, "action failed", zap.Error(err))
}
