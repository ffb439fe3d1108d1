package actions

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v2"

	"playcraft/internal/catalog"
	"playcraft/internal/playlist"
	"playcraft/internal/search"
)

// SearchTracks runs a one-shot search and prints the results
func SearchTracks(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	offset := c.Int("offset")
	pages := c.Int("pages")

	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", pages)
	}

	cfg, log, ctx, err := setup(c, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	if strings.TrimSpace(query) == "" {
		err := huh.NewInput().
			Title("What are you looking for?").
			Value(&query).
			Run()
		if err != nil {
			return ignoreAbort(err)
		}
	}

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to create catalog for platform %s: %v", cfg.Catalog.Platform, err)
	}

	f := search.New("cli", cat)
	fetch := func(ctx context.Context) error {
		return fetchPages(ctx, f, query, offset, pages)
	}

	err = spinner.New().
		Title(fmt.Sprintf("Searching %s for %q...", cat.Name(), query)).
		Context(ctx).
		ActionWithErr(fetch).
		Run()
	if err != nil {
		return fmt.Errorf("search failed: %v", err)
	}

	printResults(c.App.Writer, f.State(), offset)
	return nil
}

// fetchPages loads up to pages pages of query starting at offset
func fetchPages(ctx context.Context, f *search.Fetcher, query string, offset, pages int) error {
	if err := f.Search(ctx, query, offset, search.Replace); err != nil {
		return err
	}
	for i := 1; i < pages && f.State().HasMore; i++ {
		if err := f.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func printResults(w io.Writer, state search.State, offset int) {
	if len(state.Results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", state.Query)
		return
	}

	idWidth := len(strconv.Itoa(offset + len(state.Results)))
	for i, t := range state.Results {
		fmt.Fprintf(w, "%*d. %s\n", idWidth, offset+i+1, row(t))
	}

	fmt.Fprintf(w, "\n%s results", humanize.Comma(int64(len(state.Results))))
	if state.HasMore {
		fmt.Fprintf(w, ", more with --offset %d", state.NextOffset)
	}
	fmt.Fprintln(w)
}

func row(t playlist.Track) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		runewidth.FillRight(runewidth.Truncate(t.Name, 32, "…"), 32),
		runewidth.FillRight(runewidth.Truncate(t.Artist, 24, "…"), 24),
		runewidth.FillRight(runewidth.Truncate(t.Album, 24, "…"), 24),
		runewidth.FillLeft(t.Length(), 5),
	)
}
