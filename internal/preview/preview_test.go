package preview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-test/deep"

	"playcraft/internal/clock"
)

type fakeStream struct {
	url     string
	done    chan struct{}
	once    sync.Once
	stopped bool
}

func (s *fakeStream) Done() <-chan struct{} { return s.done }

func (s *fakeStream) Stop() error {
	s.stopped = true
	s.finish()
	return nil
}

func (s *fakeStream) finish() {
	s.once.Do(func() { close(s.done) })
}

type fakeBackend struct {
	mu      sync.Mutex
	streams []*fakeStream
	err     error
}

func (b *fakeBackend) Play(ctx context.Context, url string) (Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return nil, b.err
	}
	s := &fakeStream{url: url, done: make(chan struct{})}
	b.streams = append(b.streams, s)
	return s, nil
}

func (b *fakeBackend) last() *fakeStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streams[len(b.streams)-1]
}

func newTestPlayer() (*Player, *fakeBackend, *clock.Manual, chan string) {
	b := &fakeBackend{}
	c := clock.NewManual(time.Time{})
	changes := make(chan string, 4)
	p := New(b, Options{
		Clock:    c,
		OnChange: func(url string) { changes <- url },
	})
	return p, b, c, changes
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	p, b, _, _ := newTestPlayer()

	playing, err := p.Toggle(ctx, "x")
	if err != nil || playing != "x" {
		t.Fatalf("expected x playing, got %q %v", playing, err)
	}

	playing, _ = p.Toggle(ctx, "y")
	if playing != "y" || p.Playing() != "y" {
		t.Fatalf("expected switch to y, got %q", playing)
	}
	if !b.streams[0].stopped {
		t.Fatal("switching did not stop the previous preview")
	}

	playing, _ = p.Toggle(ctx, "y")
	if playing != "" || p.Playing() != "" {
		t.Fatalf("expected toggle to stop y, got %q", playing)
	}
	if !b.streams[1].stopped {
		t.Fatal("toggling did not stop the preview")
	}

	var urls []string
	for _, s := range b.streams {
		urls = append(urls, s.url)
	}
	if diff := deep.Equal(urls, []string{"x", "y"}); diff != nil {
		t.Fatal(diff)
	}
}

func TestLimit(t *testing.T) {
	ctx := context.Background()
	p, b, c, changes := newTestPlayer()

	p.Toggle(ctx, "x")
	c.Advance(DefaultLimit - time.Millisecond)
	if p.Playing() != "x" {
		t.Fatal("preview stopped before the limit")
	}

	c.Advance(time.Millisecond)
	if p.Playing() != "" {
		t.Fatal("preview still playing after the limit")
	}
	if !b.last().stopped {
		t.Fatal("stream not stopped at the limit")
	}
	if got := <-changes; got != "" {
		t.Fatalf("unexpected change %q", got)
	}
}

func TestLimitRestartsOnSwitch(t *testing.T) {
	ctx := context.Background()
	p, _, c, _ := newTestPlayer()

	p.Toggle(ctx, "x")
	c.Advance(10 * time.Second)
	p.Toggle(ctx, "y")
	c.Advance(10 * time.Second)

	if p.Playing() != "y" {
		t.Fatal("the first preview's limit stopped the second")
	}
	if c.Pending() != 1 {
		t.Fatalf("expected one pending limit timer, got %d", c.Pending())
	}
}

func TestNaturalEnd(t *testing.T) {
	ctx := context.Background()
	p, b, c, changes := newTestPlayer()

	p.Toggle(ctx, "x")
	b.last().finish()

	select {
	case got := <-changes:
		if got != "" {
			t.Fatalf("unexpected change %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("natural end was not reported")
	}

	if p.Playing() != "" {
		t.Fatal("preview still marked as playing")
	}
	if c.Pending() != 0 {
		t.Fatal("limit timer left pending")
	}
}

func TestToggleErrors(t *testing.T) {
	ctx := context.Background()
	p, b, _, _ := newTestPlayer()

	if _, err := p.Toggle(ctx, ""); err == nil {
		t.Fatal("expected an error for a track without preview")
	}

	b.err = errors.New("no audio device")
	if _, err := p.Toggle(ctx, "x"); err == nil {
		t.Fatal("expected the backend error")
	}
	if p.Playing() != "" {
		t.Fatal("failed preview marked as playing")
	}
}

func TestFFmpegCommand(t *testing.T) {
	f := NewFFmpeg(FFmpegConfig{FfmpegPath: "/opt/ffmpeg/bin/ffmpeg", Format: "pulse"})
	cmd := f.Command("https://example.com/preview.m4a")

	args := strings.Join(cmd.Args[1:], " ")
	for _, want := range []string{
		"-t 15",
		"-i https://example.com/preview.m4a",
		"-f pulse",
		"-loglevel error",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if !strings.HasSuffix(args, " default") {
		t.Errorf("args %q do not end with the output device", args)
	}
	if cmd.Path != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("unexpected ffmpeg path %q", cmd.Path)
	}
}
