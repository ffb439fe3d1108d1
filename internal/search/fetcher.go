// Package search accumulates paginated catalog results for one search box.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"playcraft/internal/catalog"
	"playcraft/internal/logger"
	"playcraft/internal/playlist"
)

// PageSize is the number of results requested per page
const PageSize = 10

var (
	// ErrBusy is returned when more results are requested while a fetch is running
	ErrBusy = errors.New("search already in progress")
	// ErrStale is returned by Run when a newer request superseded this one.
	// The response was discarded.
	ErrStale = errors.New("search superseded by a newer request")
	// ErrNoMore is returned when more results are requested after the last page
	ErrNoMore = errors.New("no more results")
	// ErrBadOffset is returned for offsets that are negative or not page aligned
	ErrBadOffset = errors.New("offset must be a non-negative multiple of the page size")
	// ErrQueryChanged is returned when appending a page for a different query
	ErrQueryChanged = errors.New("cannot append results of a different query")
	// ErrNothingToRetry is returned by BeginRetry when the last fetch did not fail
	ErrNothingToRetry = errors.New("nothing to retry")
)

// Mode says what a fetched page does to the accumulated results
type Mode int

const (
	// Replace discards earlier results
	Replace Mode = iota
	// Append adds the page after earlier results
	Append
)

func (m Mode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a snapshot of a Fetcher. Results must not be modified.
type State struct {
	Query      string
	Results    []playlist.Track
	NextOffset int
	HasMore    bool
	Loading    bool
	// Err is the failure of the last settled fetch, nil if it succeeded
	Err error
}

// Request is a fetch that has been started with Begin and not yet run
type Request struct {
	Query  string
	Offset int
	Mode   Mode

	gen uint64
}

// Fetcher owns the result list of one search box. Separate search boxes use
// separate Fetchers and never share state.
//
// Begin marks the fetcher as loading and returns a Request; Run performs the
// network call and applies the page unless a later Begin or Reset superseded
// it. Splitting the two lets a UI flip the loading flag synchronously and do
// the I/O elsewhere.
type Fetcher struct {
	name    string
	catalog catalog.Catalog

	mu    sync.Mutex
	state State
	gen   uint64
	last  *Request
}

// New creates a Fetcher. name only appears in logs.
func New(name string, c catalog.Catalog) *Fetcher {
	return &Fetcher{name: name, catalog: c}
}

// State returns a snapshot of the fetcher
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Begin starts a fetch of the page at offset for query.
//
// An empty query clears the results and returns a nil Request; nothing needs
// to be run. Append requests are refused while another fetch is loading.
// A Replace request supersedes any fetch in flight.
func (f *Fetcher) Begin(query string, offset int, mode Mode) (*Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.begin(query, offset, mode)
}

// BeginMore starts a fetch of the next page of the current query
func (f *Fetcher) BeginMore() (*Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Loading {
		return nil, ErrBusy
	}
	if !f.state.HasMore {
		return nil, ErrNoMore
	}
	return f.begin(f.state.Query, f.state.NextOffset, Append)
}

// BeginRetry re-issues the last request if it failed
func (f *Fetcher) BeginRetry() (*Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Err == nil || f.last == nil || f.state.Loading {
		return nil, ErrNothingToRetry
	}
	return f.begin(f.last.Query, f.last.Offset, f.last.Mode)
}

// begin does the work of Begin. f.mu must be held.
func (f *Fetcher) begin(query string, offset int, mode Mode) (*Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		f.resetLocked()
		return nil, nil
	}

	if offset < 0 || offset%PageSize != 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadOffset, offset)
	}
	if mode == Append {
		if f.state.Loading {
			return nil, ErrBusy
		}
		if query != f.state.Query {
			return nil, fmt.Errorf("%w: %q while showing %q", ErrQueryChanged, query, f.state.Query)
		}
	}

	f.gen++
	req := &Request{Query: query, Offset: offset, Mode: mode, gen: f.gen}
	f.last = req
	f.state.Loading = true
	f.state.Err = nil
	return req, nil
}

// Run fetches the page described by req and merges it into the results.
//
// On failure the results, query, offset and HasMore are left as they were
// before Begin, Loading is cleared and the error is kept in State.Err.
// If req was superseded the response is dropped and ErrStale is returned.
func (f *Fetcher) Run(ctx context.Context, req *Request) error {
	if req == nil {
		return nil
	}

	ctx, _ = logger.WithRequestID(ctx)
	log := logger.FromContext(ctx)
	log.Info(ctx, "search issued",
		zap.String("fetcher", f.name),
		zap.String("query", req.Query),
		zap.Int("offset", req.Offset),
		zap.Stringer("mode", req.Mode))

	start := time.Now()
	page, err := f.catalog.SearchTracks(ctx, req.Query, PageSize, req.Offset)

	f.mu.Lock()
	defer f.mu.Unlock()

	if req.gen != f.gen {
		log.Debug(ctx, "stale search response discarded", zap.String("fetcher", f.name))
		return ErrStale
	}

	f.state.Loading = false
	if err != nil {
		f.state.Err = err
		log.Warn(ctx, "search failed", zap.String("fetcher", f.name), zap.Error(err))
		return err
	}

	f.apply(req, page)
	log.Info(ctx, "search settled",
		zap.String("fetcher", f.name),
		zap.Int("count", page.Count),
		zap.Bool("has_more", f.state.HasMore),
		zap.Duration("took", time.Since(start)))
	return nil
}

// apply merges a fetched page. f.mu must be held.
func (f *Fetcher) apply(req *Request, page catalog.Page) {
	count := page.Count
	if count > PageSize {
		count = PageSize
	}

	f.state.Query = req.Query
	f.state.HasMore = count == PageSize

	switch req.Mode {
	case Append:
		results := make([]playlist.Track, 0, len(f.state.Results)+len(page.Tracks))
		results = append(results, f.state.Results...)
		f.state.Results = append(results, page.Tracks...)
	default:
		f.state.Results = page.Tracks
	}
	f.state.NextOffset = req.Offset + count
}

// Search is Begin followed by Run
func (f *Fetcher) Search(ctx context.Context, query string, offset int, mode Mode) error {
	req, err := f.Begin(query, offset, mode)
	if err != nil {
		return err
	}
	return f.Run(ctx, req)
}

// LoadMore is BeginMore followed by Run
func (f *Fetcher) LoadMore(ctx context.Context) error {
	req, err := f.BeginMore()
	if err != nil {
		return err
	}
	return f.Run(ctx, req)
}

// Reset clears the results and drops any fetch in flight
func (f *Fetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Fetcher) resetLocked() {
	f.gen++
	f.state = State{}
	f.last = nil
}
