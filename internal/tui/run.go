package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"playcraft/internal/playlist"
)

// Run shows the builder until the user quits and returns the playlists built
func Run(ctx context.Context, opts Options) ([]playlist.Playlist, error) {
	m := New(ctx, opts)
	defer m.Close()

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Playlists(), nil
}
