package actions

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"playcraft/internal/config"
	"playcraft/internal/logger"
)

// setup loads the configuration named by the --config flag and builds the
// logger. logFile, when not empty, overrides LOG_FILE.
func setup(c *cli.Context, logFile string) (*config.Config, *logger.Logger, context.Context, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %v", err)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return cfg, log, logger.WithContext(ctx, log), nil
}
