// Package preview plays short track previews, one at a time.
package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"playcraft/internal/clock"
	"playcraft/internal/logger"
)

// DefaultLimit is the longest a preview plays before it is stopped
const DefaultLimit = 15 * time.Second

// Stream is a preview that has started playing
type Stream interface {
	// Stop ends playback. It is safe to call after the stream finished.
	Stop() error
	// Done is closed when playback ends for any reason
	Done() <-chan struct{}
}

// Backend starts audio playback of a URL
type Backend interface {
	Play(ctx context.Context, url string) (Stream, error)
}

// Options configures a Player
type Options struct {
	Clock  clock.Clock
	Limit  time.Duration
	Logger *logger.Logger
	// OnChange is called with the new playing URL, or "" once playback stops
	// on its own. It is not called for changes made through Toggle or Stop.
	OnChange func(url string)
}

// Player plays at most one preview at a time
type Player struct {
	backend  Backend
	clock    clock.Clock
	limit    time.Duration
	log      *logger.Logger
	onChange func(string)

	mu      sync.Mutex
	playing string
	stream  Stream
	timer   clock.Timer
	gen     uint64
}

// New creates a Player
func New(b Backend, opts Options) *Player {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Player{
		backend:  b,
		clock:    opts.Clock,
		limit:    opts.Limit,
		log:      opts.Logger,
		onChange: opts.OnChange,
	}
}

// Playing returns the URL being played, or "" when nothing plays
func (p *Player) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Toggle stops url if it is playing and otherwise switches playback to it.
// It returns the URL playing afterwards.
func (p *Player) Toggle(ctx context.Context, url string) (string, error) {
	if url == "" {
		return p.Playing(), fmt.Errorf("track has no preview")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing == url {
		p.stopLocked(ctx)
		return "", nil
	}
	p.stopLocked(ctx)

	stream, err := p.backend.Play(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to play preview: %v", err)
	}

	p.gen++
	gen := p.gen
	p.playing = url
	p.stream = stream
	p.timer = p.clock.AfterFunc(p.limit, func() {
		p.expire(ctx, gen, "limit")
	})
	go func() {
		<-stream.Done()
		p.expire(ctx, gen, "ended")
	}()

	p.log.Debug(ctx, "preview started", zap.String("url", url))
	return url, nil
}

// Stop ends playback, if any
func (p *Player) Stop(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked(ctx)
}

func (p *Player) expire(ctx context.Context, gen uint64, reason string) {
	p.mu.Lock()
	if gen != p.gen || p.playing == "" {
		p.mu.Unlock()
		return
	}
	p.log.Debug(ctx, "preview finished", zap.String("url", p.playing), zap.String("reason", reason))
	p.stopLocked(ctx)
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange("")
	}
}

// stopLocked stops the current stream. p.mu must be held.
func (p *Player) stopLocked(ctx context.Context) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.stream != nil {
		p.log.Debug(ctx, "preview stopped", zap.String("url", p.playing))
		if err := p.stream.Stop(); err != nil {
			p.log.Warn(ctx, "failed to stop preview", zap.Error(err))
		}
		p.stream = nil
	}
	p.playing = ""
	p.gen++
}
