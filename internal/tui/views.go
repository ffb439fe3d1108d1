package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"playcraft/internal/playlist"
	"playcraft/internal/search"
	"playcraft/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows taken by the header, search box, status and help around a list
	chromeRows = 14
)

func (m Model) View() string {
	m.keys.enable(m.session.Mode(), m.focus)

	var header, body string
	switch mode := m.session.Mode().(type) {
	case session.List:
		header = titleStyle.Render("Playlists")
		body = m.listView()
	case session.Selecting:
		header = titleStyle.Render("New playlist")
		body = m.selectingView()
	case session.Detail:
		header, body = m.detailView(mode)
	}

	status := statusStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		status,
		m.help.View(m.keys),
	))
}

func (m Model) innerWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return max(w-6, 20)
}

func (m Model) listRows() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(h-chromeRows, 3)
}

func (m Model) listView() string {
	var lines []string
	if m.focus == focusFilter || m.filter.Value() != "" {
		lines = append(lines, m.filter.View(), "")
	}

	playlists := m.session.Playlists()
	if len(playlists) == 0 {
		lines = append(lines, mutedStyle.Render("No playlists yet. Press n to build one."))
		return strings.Join(lines, "\n")
	}

	visible := m.visiblePlaylists()
	if len(visible) == 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("No playlist matches %q.", m.filter.Value())))
		return strings.Join(lines, "\n")
	}

	// cards take three rows plus the border
	start, end := window(len(visible), m.cursor, max(m.listRows()/4, 1))
	w := m.innerWidth() - 4
	now := m.clock.Now()
	for i := start; i < end; i++ {
		p := playlists[visible[i]]
		age := p.Age(now)
		titleWidth := max(w-runewidth.StringWidth(age)-1, 1)

		card := fmt.Sprintf("%s %s\n%s",
			runewidth.FillRight(runewidth.Truncate(p.DisplayTitle(), titleWidth, "…"), titleWidth),
			mutedStyle.Render(age),
			mutedStyle.Render(runewidth.Truncate(summary(p), w, "…")),
		)

		style := cardStyle
		if i == m.cursor && m.focus == focusMain {
			style = activeCardStyle
		}
		lines = append(lines, style.Width(w+2).Render(card))
	}
	if len(visible) > end-start {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("[%d/%d]", m.cursor+1, len(visible))))
	}
	return strings.Join(lines, "\n")
}

// summary names the first two tracks of p and counts the rest
func summary(p playlist.Playlist) string {
	if len(p.Songs) == 0 {
		return "empty"
	}

	var names []string
	for _, t := range p.Songs[:min(len(p.Songs), 2)] {
		names = append(names, t.Name)
	}
	s := strings.Join(names, " · ")
	if rest := len(p.Songs) - len(names); rest > 0 {
		s += fmt.Sprintf(" +%d more", rest)
	}
	return s
}

func (m Model) selectingView() string {
	state, _ := m.session.Results()
	selection := m.session.Selection()

	var chips []string
	for _, t := range selection {
		chips = append(chips, chipStyle.Render(runewidth.Truncate(t.Name, 20, "…")))
	}
	strip := mutedStyle.Render("Nothing selected yet.")
	if len(chips) > 0 {
		strip = mutedStyle.Render(fmt.Sprintf("%d selected  ", len(selection))) +
			runewidth.Truncate(strings.Join(chips, ""), m.innerWidth(), "…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.searchBox(),
		strip,
		"",
		m.resultsView(state, m.session.Selected),
	)
}

func (m Model) detailView(mode session.Detail) (string, string) {
	p, err := m.session.Viewing()
	if err != nil {
		return titleStyle.Render("Playlist"), errorStyle.Render(err.Error())
	}

	header := titleStyle.Render(p.DisplayTitle()) +
		mutedStyle.Render(fmt.Sprintf("  %d tracks · created %s", len(p.Songs), p.Age(m.clock.Now())))
	if mode.Editing {
		header += "  " + chipStyle.Render("editing")
	}

	var parts []string
	if m.focus == focusTitle {
		parts = append(parts, m.title.View(), "")
	}

	songs := m.trackList(p.Songs, m.cursor, m.focus == focusMain, nil, m.listRows()/2)
	if len(p.Songs) == 0 {
		songs = mutedStyle.Render("No tracks.")
	}
	pane := paneStyle
	if mode.Editing && m.focus == focusMain {
		pane = focusedPaneStyle
	}
	parts = append(parts, pane.Width(m.innerWidth()).Render(songs))

	if mode.Editing {
		state, _ := m.session.Results()
		parts = append(parts, "", m.searchBox(), m.resultsView(state, m.session.InBuffer))
	}
	return header, lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) searchBox() string {
	style := paneStyle
	if m.focus == focusSearch {
		style = focusedPaneStyle
	}
	return style.Width(m.innerWidth()).Render(m.search.View())
}

// resultsView renders a search result list, marking tracks for which marked
// reports true
func (m Model) resultsView(state search.State, marked func(int64) bool) string {
	var lines []string

	switch {
	case state.Err != nil:
		lines = append(lines, errorStyle.Render("Search failed: "+state.Err.Error()), mutedStyle.Render("Press r to retry."))
	case state.Loading && len(state.Results) == 0:
		lines = append(lines, m.spinner.View()+" Searching...")
	case state.Query == "" && !state.Loading:
		lines = append(lines, mutedStyle.Render("Type to search the catalog."))
	case len(state.Results) == 0:
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("No results for %q.", state.Query)))
	}

	if len(state.Results) > 0 {
		rows := m.listRows()
		if _, ok := m.session.Mode().(session.Detail); ok {
			rows /= 2
		}
		lines = append(lines, m.trackList(state.Results, m.rcursor, m.focus == focusResults, marked, rows))

		footer := fmt.Sprintf("%d results", len(state.Results))
		switch {
		case state.Loading:
			footer = m.spinner.View() + " Loading more..."
		case state.HasMore:
			footer += " · m to load more"
		default:
			footer += " · end of results"
		}
		lines = append(lines, mutedStyle.Render(footer))
	}

	style := paneStyle
	if m.focus == focusResults {
		style = focusedPaneStyle
	}
	return style.Width(m.innerWidth()).Render(strings.Join(lines, "\n"))
}

// trackList renders up to rows tracks around cursor
func (m Model) trackList(tracks []playlist.Track, cursor int, focused bool, marked func(int64) bool, rows int) string {
	playing := m.playing()
	width := m.innerWidth() - 2

	start, end := window(len(tracks), cursor, max(rows, 3))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := tracks[i]
		lines = append(lines, trackRow(t, width,
			focused && i == cursor,
			marked != nil && marked(t.ID),
			playing != "" && playing == t.PreviewURL,
		))
	}
	return strings.Join(lines, "\n")
}

func trackRow(t playlist.Track, width int, current, marked, playing bool) string {
	prefix := "  "
	if current {
		prefix = cursorStyle.Render("▸ ")
	}
	mark := "  "
	if marked {
		mark = markStyle.Render("✔ ")
	}
	note := " "
	if playing {
		note = playingStyle.Render("♪")
	}

	// prefix, mark, two gaps, duration and note
	cols := max(width-14, 10)
	nameWidth := cols / 2
	artistWidth := cols - nameWidth

	name := runewidth.FillRight(runewidth.Truncate(t.Name, nameWidth, "…"), nameWidth)
	artist := runewidth.FillRight(runewidth.Truncate(t.Artist, artistWidth, "…"), artistWidth)
	if current {
		name = cursorStyle.Render(name)
	}

	return prefix + mark + name + " " + mutedStyle.Render(artist) + " " +
		runewidth.FillLeft(t.Length(), 5) + note
}

// window returns the range of n items to show so that cursor stays visible
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := max(cursor-size/2, 0)
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
