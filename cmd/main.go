package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"playcraft/internal/actions"
	"playcraft/internal/config"
)

func main() {
	app := &cli.App{
		Name:  "playcraft",
		Usage: "Playcraft is a terminal tool to search a music catalog and build playlists.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a .env or yaml configuration file",
				Value:   config.DefaultPath,
			},
		},
		Action: actions.BuildPlaylists,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Search the catalog and build playlists interactively",
				Action: actions.BuildPlaylists,
			},
			{
				Name:      "search",
				Usage:     "Search the catalog and print the results",
				ArgsUsage: "<term...>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "offset",
						Usage: "index of the first result, a multiple of 10",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "number of pages of 10 results to fetch",
						Value: 1,
					},
				},
				Action: actions.SearchTracks,
			},
			{
				Name:  "env",
				Usage: "List the environment variables playcraft reads",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, config.Usage())
					return nil
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
