package actions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"go.uber.org/zap"

	"playcraft/internal/logger"
	"playcraft/internal/playlist"
	"playcraft/internal/utils"
)

// ExportPlaylist writes the tracks of p as CSV into dir and returns the path
// of the file written
func ExportPlaylist(ctx context.Context, dir string, p playlist.Playlist) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %v", dir, err)
	}

	path := filepath.Join(dir, FileName(p))
	if err := utils.WriteToCsvFile(path, p.Songs); err != nil {
		return "", fmt.Errorf("failed to export playlist %s: %v", p.DisplayTitle(), err)
	}

	logger.FromContext(ctx).Info(ctx, "export written",
		zap.String("path", path),
		zap.Int("tracks", len(p.Songs)))
	return path, nil
}

// FileName derives a CSV file name from the playlist's title and creation time
func FileName(p playlist.Playlist) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, p.DisplayTitle())

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "playlist"
	}

	if p.CreatedAt.IsZero() {
		return slug + ".csv"
	}
	return fmt.Sprintf("%s-%s.csv", slug, p.CreatedAt.Format("20060102-150405"))
}

// promptExport asks which playlists to export and where, then writes them
func promptExport(ctx context.Context, dir string, playlists []playlist.Playlist) error {
	export := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Export your playlists to CSV? (%d built)", len(playlists))).
		Value(&export).
		Run()
	if err != nil || !export {
		return ignoreAbort(err)
	}

	var chosen []int
	err = huh.NewMultiSelect[int]().
		Height(10).
		Title("Choose the playlists to export").
		Options(getPlaylistOptions(playlists, time.Now())...).
		Value(&chosen).
		Run()
	if err != nil || len(chosen) == 0 {
		return ignoreAbort(err)
	}

	err = huh.NewInput().
		Title("Enter the directory to save the exported playlists").
		Value(&dir).
		Run()
	if err != nil {
		return ignoreAbort(err)
	}

	var written []string
	write := func(ctx context.Context) error {
		for _, i := range chosen {
			path, err := ExportPlaylist(ctx, dir, playlists[i])
			if err != nil {
				return err
			}
			written = append(written, path)
		}
		return nil
	}

	err = spinner.New().Title("Exporting...").Context(ctx).ActionWithErr(write).Run()
	for _, path := range written {
		fmt.Println("Exported", path)
	}
	return err
}

func getPlaylistOptions(p []playlist.Playlist, now time.Time) []huh.Option[int] {
	playlistOptions := make([]huh.Option[int], len(p))
	for i, pl := range p {
		label := fmt.Sprintf("%s (%d tracks, %s)", pl.DisplayTitle(), len(pl.Songs), pl.Age(now))
		playlistOptions[i] = huh.NewOption(label, i).Selected(true)
	}
	return playlistOptions
}

func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
