package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"playcraft/internal/playlist"
)

// ErrUnsupportedPlatform is returned by New for an unknown platform name
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Catalog defines the interface for searching a music platform's catalog
type Catalog interface {
	// Name returns the platform's display name
	Name() string

	// SearchTracks returns one page of at most limit tracks starting at offset
	SearchTracks(ctx context.Context, query string, limit, offset int) (Page, error)
}

// Page is one slice of search results
type Page struct {
	Tracks []playlist.Track
	// Count is the number of results the platform reported for this page.
	// It can exceed len(Tracks) when entries without a track id are dropped.
	Count int
}

// PlatformType represents the supported catalog platforms
type PlatformType string

const (
	ITunesPlatform     PlatformType = "itunes"
	AppleMusicPlatform PlatformType = "apple"
)

// Config selects and configures the catalog platform
type Config struct {
	Platform string        `yaml:"CATALOG_PLATFORM" env:"CATALOG_PLATFORM" env-default:"itunes"`
	BaseURL  string        `yaml:"ITUNES_BASE_URL" env:"ITUNES_BASE_URL" env-default:"https://itunes.apple.com"`
	Country  string        `yaml:"ITUNES_COUNTRY" env:"ITUNES_COUNTRY"`
	Timeout  time.Duration `yaml:"HTTP_TIMEOUT" env:"HTTP_TIMEOUT" env-default:"10s"`
}

// New is a factory function that creates a catalog for the configured platform
func New(cfg Config) (Catalog, error) {
	switch PlatformType(strings.ToLower(cfg.Platform)) {
	case ITunesPlatform, AppleMusicPlatform, "":
		return NewITunes(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, cfg.Platform)
	}
}
