package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-test/deep"

	"playcraft/internal/playlist"
)

const samplePage = `{
  "resultCount": 2,
  "results": [
    {
      "wrapperType": "track",
      "trackId": 1440935467,
      "trackName": "Shake It Off",
      "artistName": "Taylor Swift",
      "collectionName": "1989",
      "primaryGenreName": "Pop",
      "trackTimeMillis": 219209,
      "artworkUrl60": "https://example.com/60.jpg",
      "artworkUrl100": "https://example.com/100.jpg",
      "previewUrl": "https://example.com/preview.m4a",
      "trackViewUrl": "https://music.apple.com/track"
    },
    {
      "wrapperType": "collection",
      "collectionName": "1989 (Deluxe)"
    }
  ]
}`

func newTestITunes(t *testing.T, handler http.HandlerFunc) *ITunes {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewITunes(Config{BaseURL: srv.URL + "/", Country: "US", Timeout: time.Second})
}

func TestITunesSearchTracks(t *testing.T) {
	c := newTestITunes(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		expect := map[string]string{
			"term":    "taylor swift",
			"media":   "music",
			"limit":   "10",
			"offset":  "20",
			"country": "US",
		}
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		for k, v := range expect {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, expected %q", k, got, v)
			}
		}
		w.Write([]byte(samplePage))
	})

	page, err := c.SearchTracks(context.Background(), "taylor swift", 10, 20)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	expect := Page{
		Count: 2,
		Tracks: []playlist.Track{{
			ID:             1440935467,
			Name:           "Shake It Off",
			Artist:         "Taylor Swift",
			Album:          "1989",
			Genre:          "Pop",
			DurationMillis: 219209,
			ArtworkURL60:   "https://example.com/60.jpg",
			ArtworkURL100:  "https://example.com/100.jpg",
			PreviewURL:     "https://example.com/preview.m4a",
			URL:            "https://music.apple.com/track",
		}},
	}
	if diff := deep.Equal(page, expect); diff != nil {
		t.Fatal("page mismatch:", diff)
	}
}

func TestITunesSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>rate limited</html>"))
			},
		},
		{
			name: "missing results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"errorMessage":"Invalid value(s) for key(s)"}`))
			},
			target: ErrMalformedResponse,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestITunes(t, test.handler)

			_, err := c.SearchTracks(context.Background(), "abba", 10, 0)
			if err == nil {
				t.Fatal("expected an error")
			}
			if test.target != nil && !errors.Is(err, test.target) {
				t.Fatalf("expected %v, got %v", test.target, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, platform := range []string{"itunes", "Apple", ""} {
		c, err := New(Config{Platform: platform})
		if err != nil {
			t.Fatalf("platform %q: unexpected error: %v", platform, err)
		}
		if c.Name() != "iTunes" {
			t.Fatalf("platform %q: unexpected catalog %s", platform, c.Name())
		}
	}

	if _, err := New(Config{Platform: "spotify"}); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
	}
}
