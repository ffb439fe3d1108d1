package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"playcraft/internal/logger"
	"playcraft/internal/playlist"
	"playcraft/internal/utils"
)

// ErrMalformedResponse is returned when the search response lacks its results
var ErrMalformedResponse = errors.New("malformed search response")

const defaultITunesURL = "https://itunes.apple.com"

type itunesResponse struct {
	ResultCount *int          `json:"resultCount"`
	Results     []itunesTrack `json:"results"`
}

type itunesTrack struct {
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	TrackTimeMillis  int64  `json:"trackTimeMillis"`
	ArtworkURL60     string `json:"artworkUrl60"`
	ArtworkURL100    string `json:"artworkUrl100"`
	PreviewURL       string `json:"previewUrl"`
	TrackViewURL     string `json:"trackViewUrl"`
}

// ITunes searches the public iTunes Search API. It needs no credentials.
type ITunes struct {
	HttpClient *utils.HttpClient
	baseURL    string
	country    string
}

// NewITunes creates an iTunes catalog client
func NewITunes(cfg Config) *ITunes {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultITunesURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ITunes{
		HttpClient: utils.NewHttp(timeout),
		baseURL:    base,
		country:    cfg.Country,
	}
}

func (c *ITunes) Name() string {
	return "iTunes"
}

// SearchTracks queries /search restricted to the music media type
func (c *ITunes) SearchTracks(ctx context.Context, query string, limit, offset int) (Page, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("media", "music")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if c.country != "" {
		params.Set("country", c.country)
	}

	start := time.Now()
	body, err := c.HttpClient.Get(ctx, c.baseURL+"/search", params)
	if err != nil {
		return Page{}, errors.Wrapf(err, "failed to search %s for %q", c.Name(), query)
	}

	var resp itunesResponse
	if err := utils.ParseResp(body, &resp); err != nil {
		logger.FromContext(ctx).Debug(ctx, "unparseable search response", zap.ByteString("body", body))
		return Page{}, errors.Wrapf(err, "failed to search %s for %q", c.Name(), query)
	}
	if resp.ResultCount == nil || resp.Results == nil {
		return Page{}, errors.Wrapf(ErrMalformedResponse, "failed to search %s for %q", c.Name(), query)
	}

	page := Page{
		Tracks: make([]playlist.Track, 0, len(resp.Results)),
		Count:  *resp.ResultCount,
	}
	for _, r := range resp.Results {
		if r.TrackID == 0 {
			continue
		}
		page.Tracks = append(page.Tracks, r.track())
	}

	logger.FromContext(ctx).Debug(ctx, "itunes search",
		zap.String("query", query),
		zap.Int("offset", offset),
		zap.Int("count", page.Count),
		zap.Duration("took", time.Since(start)))

	return page, nil
}

func (r itunesTrack) track() playlist.Track {
	return playlist.Track{
		ID:             r.TrackID,
		Name:           r.TrackName,
		Artist:         r.ArtistName,
		Album:          r.CollectionName,
		Genre:          r.PrimaryGenreName,
		DurationMillis: r.TrackTimeMillis,
		ArtworkURL60:   r.ArtworkURL60,
		ArtworkURL100:  r.ArtworkURL100,
		PreviewURL:     r.PreviewURL,
		URL:            r.TrackViewURL,
	}
}
