package actions

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"playcraft/internal/catalog"
	"playcraft/internal/playlist"
	"playcraft/internal/preview"
	"playcraft/internal/tui"
)

// BuildPlaylists runs the interactive builder and offers to export the
// playlists made once it exits
func BuildPlaylists(c *cli.Context) error {
	cfg, log, ctx, err := setup(c, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	// ffmpeg-go prints the commands it runs through the standard logger
	restore := log.RedirectStdLog()
	defer restore()

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to create catalog for platform %s: %v", cfg.Catalog.Platform, err)
	}
	log.Info(ctx, "builder started", zap.String("catalog", cat.Name()))

	playlists, err := tui.Run(ctx, tui.Options{
		Catalog:      cat,
		Backend:      preview.NewFFmpeg(cfg.Preview),
		Delay:        cfg.DebounceDelay,
		PreviewLimit: cfg.Preview.Limit,
		Logger:       log,
		Export: func(p playlist.Playlist) (string, error) {
			return ExportPlaylist(ctx, cfg.ExportDir, p)
		},
	})
	if err != nil {
		return fmt.Errorf("builder failed: %v", err)
	}

	log.Info(ctx, "builder finished", zap.Int("playlists", len(playlists)))
	if len(playlists) == 0 {
		return nil
	}
	return promptExport(ctx, cfg.ExportDir, playlists)
}
