package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-test/deep"

	"playcraft/internal/catalog"
	"playcraft/internal/playlist"
)

type call struct {
	query  string
	offset int
}

// fakeCatalog serves total results per query, page by page
type fakeCatalog struct {
	mu    sync.Mutex
	total map[string]int
	err   error
	calls []call
	// gate, if set, blocks the named query until it is closed
	gate map[string]chan struct{}
}

func (c *fakeCatalog) Name() string { return "fake" }

func (c *fakeCatalog) SearchTracks(ctx context.Context, query string, limit, offset int) (catalog.Page, error) {
	c.mu.Lock()
	c.calls = append(c.calls, call{query, offset})
	gate := c.gate[query]
	err := c.err
	total := c.total[query]
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return catalog.Page{}, err
	}

	var page catalog.Page
	for i := offset; i < total && i < offset+limit; i++ {
		page.Tracks = append(page.Tracks, playlist.Track{ID: int64(i + 1), Name: query})
	}
	page.Count = len(page.Tracks)
	return page, nil
}

func (c *fakeCatalog) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func ids(tracks []playlist.Track) []int64 {
	out := make([]int64, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func seq(from, to int64) []int64 {
	var out []int64
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

type stateExpect struct {
	Query      string
	IDs        []int64
	NextOffset int
	HasMore    bool
}

func assertState(t *testing.T, f *Fetcher, expect stateExpect) {
	t.Helper()

	s := f.State()
	got := stateExpect{Query: s.Query, NextOffset: s.NextOffset, HasMore: s.HasMore}
	if len(s.Results) > 0 {
		got.IDs = ids(s.Results)
	}
	if diff := deep.Equal(got, expect); diff != nil {
		t.Fatal("state mismatch:", diff)
	}
	if s.Loading {
		t.Fatal("fetcher still loading")
	}
}

func TestFetcherPagination(t *testing.T) {
	ctx := context.Background()
	c := &fakeCatalog{total: map[string]int{"taylor swift": 15, "abba": 20}}

	tests := []struct {
		name   string
		apply  func(t *testing.T, f *Fetcher)
		expect stateExpect
	}{
		{
			name: "replace full page",
			apply: func(t *testing.T, f *Fetcher) {
				if err := f.Search(ctx, "taylor swift", 0, Replace); err != nil {
					t.Fatal(err)
				}
			},
			expect: stateExpect{Query: "taylor swift", IDs: seq(1, 10), NextOffset: 10, HasMore: true},
		},
		{
			name: "append short page",
			apply: func(t *testing.T, f *Fetcher) {
				if err := f.Search(ctx, "taylor swift", 0, Replace); err != nil {
					t.Fatal(err)
				}
				if err := f.Search(ctx, "taylor swift", 10, Append); err != nil {
					t.Fatal(err)
				}
			},
			expect: stateExpect{Query: "taylor swift", IDs: seq(1, 15), NextOffset: 15, HasMore: false},
		},
		{
			// A total that is a multiple of the page size over-predicts once.
			name: "exact multiple",
			apply: func(t *testing.T, f *Fetcher) {
				if err := f.Search(ctx, "abba", 0, Replace); err != nil {
					t.Fatal(err)
				}
				if err := f.LoadMore(ctx); err != nil {
					t.Fatal(err)
				}
				if err := f.LoadMore(ctx); err != nil {
					t.Fatal(err)
				}
			},
			expect: stateExpect{Query: "abba", IDs: seq(1, 20), NextOffset: 20, HasMore: false},
		},
		{
			name: "replace discards earlier query",
			apply: func(t *testing.T, f *Fetcher) {
				if err := f.Search(ctx, "abba", 0, Replace); err != nil {
					t.Fatal(err)
				}
				if err := f.LoadMore(ctx); err != nil {
					t.Fatal(err)
				}
				if err := f.Search(ctx, "taylor swift", 0, Replace); err != nil {
					t.Fatal(err)
				}
			},
			expect: stateExpect{Query: "taylor swift", IDs: seq(1, 10), NextOffset: 10, HasMore: true},
		},
		{
			name: "no results",
			apply: func(t *testing.T, f *Fetcher) {
				if err := f.Search(ctx, "nothing matches", 0, Replace); err != nil {
					t.Fatal(err)
				}
				if err := f.LoadMore(ctx); !errors.Is(err, ErrNoMore) {
					t.Fatalf("expected ErrNoMore, got %v", err)
				}
			},
			expect: stateExpect{Query: "nothing matches", NextOffset: 0, HasMore: false},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := New("test", c)
			test.apply(t, f)
			assertState(t, f, test.expect)
		})
	}
}

func TestFetcherEmptyQuery(t *testing.T) {
	ctx := context.Background()
	c := &fakeCatalog{total: map[string]int{"abba": 20}}
	f := New("test", c)

	if err := f.Search(ctx, "abba", 0, Replace); err != nil {
		t.Fatal(err)
	}
	calls := c.callCount()

	for _, q := range []string{"", "   "} {
		if err := f.Search(ctx, q, 0, Replace); err != nil {
			t.Fatalf("query %q: unexpected error %v", q, err)
		}
	}

	if c.callCount() != calls {
		t.Fatal("empty query reached the catalog")
	}
	assertState(t, f, stateExpect{})
}

func TestFetcherBadRequests(t *testing.T) {
	ctx := context.Background()
	c := &fakeCatalog{total: map[string]int{"abba": 20, "queen": 20}}
	f := New("test", c)

	if err := f.Search(ctx, "abba", 5, Replace); !errors.Is(err, ErrBadOffset) {
		t.Fatalf("expected ErrBadOffset, got %v", err)
	}
	if err := f.Search(ctx, "abba", -10, Replace); !errors.Is(err, ErrBadOffset) {
		t.Fatalf("expected ErrBadOffset, got %v", err)
	}
	if err := f.Search(ctx, "abba", 0, Replace); err != nil {
		t.Fatal(err)
	}
	if err := f.Search(ctx, "queen", 10, Append); !errors.Is(err, ErrQueryChanged) {
		t.Fatalf("expected ErrQueryChanged, got %v", err)
	}
}

func TestFetcherFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	c := &fakeCatalog{total: map[string]int{"abba": 20}}
	f := New("test", c)

	if err := f.Search(ctx, "abba", 0, Replace); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("connection reset")
	c.err = boom

	if err := f.LoadMore(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected the catalog error, got %v", err)
	}
	if err := f.State().Err; !errors.Is(err, boom) {
		t.Fatalf("expected failure in state, got %v", err)
	}
	assertState(t, f, stateExpect{Query: "abba", IDs: seq(1, 10), NextOffset: 10, HasMore: true})

	c.err = nil
	req, err := f.BeginRetry()
	if err != nil {
		t.Fatal("unexpected retry error:", err)
	}
	if req.Mode != Append || req.Offset != 10 {
		t.Fatalf("retry issued %v at %d", req.Mode, req.Offset)
	}
	if err := f.Run(ctx, req); err != nil {
		t.Fatal(err)
	}
	if f.State().Err != nil {
		t.Fatal("error kept after successful retry")
	}
	assertState(t, f, stateExpect{Query: "abba", IDs: seq(1, 20), NextOffset: 20, HasMore: true})

	if _, err := f.BeginRetry(); !errors.Is(err, ErrNothingToRetry) {
		t.Fatalf("expected ErrNothingToRetry, got %v", err)
	}
}

func TestFetcherLoadMoreWhileLoading(t *testing.T) {
	c := &fakeCatalog{total: map[string]int{"abba": 30}}
	f := New("test", c)

	if err := f.Search(context.Background(), "abba", 0, Replace); err != nil {
		t.Fatal(err)
	}

	req, err := f.BeginMore()
	if err != nil {
		t.Fatal(err)
	}
	if !f.State().Loading {
		t.Fatal("Begin did not mark the fetcher as loading")
	}
	if _, err := f.BeginMore(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if _, err := f.Begin("abba", 10, Append); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := f.Run(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	assertState(t, f, stateExpect{Query: "abba", IDs: seq(1, 20), NextOffset: 20, HasMore: true})
}

func TestFetcherDiscardsStaleResponse(t *testing.T) {
	gate := make(chan struct{})
	c := &fakeCatalog{
		total: map[string]int{"tay": 10, "taylor": 3},
		gate:  map[string]chan struct{}{"tay": gate},
	}
	f := New("test", c)

	slow, err := f.Begin("tay", 0, Replace)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- f.Run(context.Background(), slow) }()

	if err := f.Search(context.Background(), "taylor", 0, Replace); err != nil {
		t.Fatal(err)
	}

	close(gate)
	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}

	assertState(t, f, stateExpect{Query: "taylor", IDs: seq(1, 3), NextOffset: 3, HasMore: false})
}

func TestFetcherResetDropsInFlight(t *testing.T) {
	c := &fakeCatalog{total: map[string]int{"abba": 10}}
	f := New("test", c)

	req, err := f.Begin("abba", 0, Replace)
	if err != nil {
		t.Fatal(err)
	}
	f.Reset()

	if err := f.Run(context.Background(), req); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	assertState(t, f, stateExpect{})
}

func TestFetchersAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := &fakeCatalog{total: map[string]int{"abba": 20, "queen": 4}}
	main := New("main", c)
	add := New("add", c)

	if err := main.Search(ctx, "abba", 0, Replace); err != nil {
		t.Fatal(err)
	}
	if err := add.Search(ctx, "queen", 0, Replace); err != nil {
		t.Fatal(err)
	}
	add.Reset()

	assertState(t, main, stateExpect{Query: "abba", IDs: seq(1, 10), NextOffset: 10, HasMore: true})
	assertState(t, add, stateExpect{})
}
